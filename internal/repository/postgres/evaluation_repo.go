package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type evaluationRepo struct {
	db *pgxpool.Pool
}

func NewEvaluationRepository(db *pgxpool.Pool) domain.EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) GetBySessionID(ctx context.Context, sessionID int64) (*domain.Evaluation, error) {
	var e domain.Evaluation
	err := r.db.QueryRow(ctx,
		`SELECT id, session_id, overall_score, summary, cheating_flag, rank FROM evaluations WHERE session_id = $1`,
		sessionID,
	).Scan(&e.ID, &e.SessionID, &e.OverallScore, &e.Summary, &e.CheatingFlag, &e.Rank)
	if err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}

func (r *evaluationRepo) ListRankingByJob(ctx context.Context, jobID int64) ([]domain.RankingEntry, error) {
	query := `SELECT c.name, c.email, e.overall_score, e.cheating_flag
		FROM evaluations e
		JOIN interview_sessions s ON s.id = e.session_id
		JOIN candidates c ON c.id = s.candidate_id
		WHERE c.job_id = $1
		ORDER BY e.overall_score DESC, c.id`
	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RankingEntry
	for rows.Next() {
		var e domain.RankingEntry
		if err := rows.Scan(&e.Name, &e.Email, &e.Score, &e.Cheating); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
