package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type sessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) domain.SessionRepository {
	return &sessionRepo{db: db}
}

const sessionColumns = `id, candidate_id, status, oral_question_count, coding_question_count,
	thinking_time, recording_time, coding_time, created_at, started_at, completed_at`

func scanSession(row pgx.Row) (*domain.InterviewSession, error) {
	var s domain.InterviewSession
	err := row.Scan(
		&s.ID, &s.CandidateID, &s.Status, &s.OralQuestionCount, &s.CodingQuestionCount,
		&s.ThinkingTime, &s.RecordingTime, &s.CodingTime, &s.CreatedAt, &s.StartedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

// GetOrCreate inserts a session carrying cfg unless the candidate already has
// one; an existing session keeps its original snapshot.
func (r *sessionRepo) GetOrCreate(ctx context.Context, candidateID int64, cfg domain.SessionConfig) (*domain.InterviewSession, bool, error) {
	insert := `INSERT INTO interview_sessions (candidate_id, status, oral_question_count, coding_question_count,
			thinking_time, recording_time, coding_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (candidate_id) DO NOTHING
		RETURNING ` + sessionColumns
	s, err := scanSession(r.db.QueryRow(ctx, insert,
		candidateID, domain.SessionNotAttempted, cfg.OralQuestionCount, cfg.CodingQuestionCount,
		cfg.ThinkingTime, cfg.RecordingTime, cfg.CodingTime,
	))
	if err == nil {
		return s, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	s, err = r.GetByCandidateID(ctx, candidateID)
	return s, false, err
}

func (r *sessionRepo) GetByID(ctx context.Context, id int64) (*domain.InterviewSession, error) {
	return scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM interview_sessions WHERE id = $1`, id))
}

func (r *sessionRepo) GetByCandidateID(ctx context.Context, candidateID int64) (*domain.InterviewSession, error) {
	return scanSession(r.db.QueryRow(ctx, `SELECT `+sessionColumns+` FROM interview_sessions WHERE candidate_id = $1`, candidateID))
}

// UpdateStatus sets status and stamps started_at or completed_at once.
func (r *sessionRepo) UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus, at time.Time) error {
	query := `UPDATE interview_sessions SET status = $1,
			started_at = CASE WHEN $1 = 'IN_PROGRESS' THEN COALESCE(started_at, $2) ELSE started_at END,
			completed_at = CASE WHEN $1 = 'COMPLETED' THEN COALESCE(completed_at, $2) ELSE completed_at END
		WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, string(status), at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
