package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type cheatingLogRepo struct {
	db *pgxpool.Pool
}

func NewCheatingLogRepository(db *pgxpool.Pool) domain.CheatingLogRepository {
	return &cheatingLogRepo{db: db}
}

func (r *cheatingLogRepo) Create(ctx context.Context, l *domain.CheatingLog) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO cheating_logs (session_id, event_type, details, snapshot_key) VALUES ($1, $2, $3, $4) RETURNING id, timestamp`,
		l.SessionID, l.EventType, l.Details, l.SnapshotKey,
	).Scan(&l.ID, &l.Timestamp)
	return mapError(err)
}

func (r *cheatingLogRepo) ListBySession(ctx context.Context, sessionID int64) ([]domain.CheatingLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, event_type, details, snapshot_key, timestamp FROM cheating_logs WHERE session_id = $1 ORDER BY timestamp, id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CheatingLog
	for rows.Next() {
		var l domain.CheatingLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.EventType, &l.Details, &l.SnapshotKey, &l.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
