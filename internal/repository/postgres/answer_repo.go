package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type answerRepo struct {
	db *pgxpool.Pool
}

func NewAnswerRepository(db *pgxpool.Pool) domain.AnswerRepository {
	return &answerRepo{db: db}
}

func (r *answerRepo) Create(ctx context.Context, a *domain.Answer) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO answers (question_id, response_text, response_file) VALUES ($1, $2, $3) RETURNING id, created_at`,
		a.QuestionID, a.ResponseText, a.ResponseFile,
	).Scan(&a.ID, &a.CreatedAt)
	return mapError(err)
}

func (r *answerRepo) ListBySession(ctx context.Context, sessionID int64) ([]domain.Answer, error) {
	query := `SELECT a.id, a.question_id, a.response_text, a.response_file, a.marks, a.feedback, a.created_at
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		WHERE q.session_id = $1
		ORDER BY a.created_at, a.id`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.ResponseText, &a.ResponseFile, &a.Marks, &a.Feedback, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
