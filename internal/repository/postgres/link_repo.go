package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type linkRepo struct {
	db *pgxpool.Pool
}

func NewLinkRepository(db *pgxpool.Pool) domain.LinkRepository {
	return &linkRepo{db: db}
}

func scanLink(row pgx.Row) (*domain.InterviewLink, error) {
	var l domain.InterviewLink
	if err := row.Scan(&l.ID, &l.SessionID, &l.Token, &l.ExpiresAt, &l.IsUsed); err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

// GetOrCreate never replaces an existing link, so token and expiry are
// fixed by the first call.
func (r *linkRepo) GetOrCreate(ctx context.Context, sessionID int64, token string, expiresAt time.Time) (*domain.InterviewLink, bool, error) {
	insert := `INSERT INTO interview_links (session_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO NOTHING
		RETURNING id, session_id, token, expires_at, is_used`
	l, err := scanLink(r.db.QueryRow(ctx, insert, sessionID, token, expiresAt))
	if err == nil {
		return l, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	l, err = r.GetBySessionID(ctx, sessionID)
	return l, false, err
}

func (r *linkRepo) GetBySessionID(ctx context.Context, sessionID int64) (*domain.InterviewLink, error) {
	return scanLink(r.db.QueryRow(ctx,
		`SELECT id, session_id, token, expires_at, is_used FROM interview_links WHERE session_id = $1`, sessionID))
}

func (r *linkRepo) GetByToken(ctx context.Context, token string) (*domain.InterviewLink, error) {
	return scanLink(r.db.QueryRow(ctx,
		`SELECT id, session_id, token, expires_at, is_used FROM interview_links WHERE token = $1`, token))
}

func (r *linkRepo) MarkUsed(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE interview_links SET is_used = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
