package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type emailLogRepo struct {
	db *pgxpool.Pool
}

func NewEmailLogRepository(db *pgxpool.Pool) domain.EmailLogRepository {
	return &emailLogRepo{db: db}
}

func (r *emailLogRepo) Create(ctx context.Context, l *domain.EmailLog) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO email_logs (candidate_id, status, retry_count, last_error, sent_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		l.CandidateID, string(l.Status), l.RetryCount, l.LastError, l.SentAt,
	).Scan(&l.ID, &l.CreatedAt)
	return mapError(err)
}

func (r *emailLogRepo) GetByID(ctx context.Context, id int64) (*domain.EmailLog, error) {
	var l domain.EmailLog
	err := r.db.QueryRow(ctx,
		`SELECT id, candidate_id, status, retry_count, last_error, sent_at, created_at FROM email_logs WHERE id = $1`, id,
	).Scan(&l.ID, &l.CandidateID, &l.Status, &l.RetryCount, &l.LastError, &l.SentAt, &l.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

func (r *emailLogRepo) Update(ctx context.Context, l *domain.EmailLog) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE email_logs SET status = $1, retry_count = $2, last_error = $3, sent_at = $4 WHERE id = $5`,
		string(l.Status), l.RetryCount, l.LastError, l.SentAt, l.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *emailLogRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.EmailLog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, candidate_id, status, retry_count, last_error, sent_at, created_at
		FROM email_logs WHERE candidate_id = $1 ORDER BY created_at DESC, id DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EmailLog
	for rows.Next() {
		var l domain.EmailLog
		if err := rows.Scan(&l.ID, &l.CandidateID, &l.Status, &l.RetryCount, &l.LastError, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
