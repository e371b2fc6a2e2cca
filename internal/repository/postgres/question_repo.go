package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"go-interview-backend/internal/domain"
)

type questionRepo struct {
	db *pgxpool.Pool
}

func NewQuestionRepository(db *pgxpool.Pool) domain.QuestionRepository {
	return &questionRepo{db: db}
}

const questionColumns = `id, session_id, question_type, text, expected_skills, difficulty, focus_area,
	input_output_format, sort_order, time_limit, time_limit_unit, is_dynamic, generation_metadata, created_at`

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var q domain.Question
	var meta []byte
	err := row.Scan(
		&q.ID, &q.SessionID, &q.Type, &q.Text, pq.Array(&q.ExpectedSkills), &q.Difficulty, &q.FocusArea,
		&q.InputOutputFormat, &q.Order, &q.TimeLimit, &q.TimeLimitUnit, &q.IsDynamic, &meta, &q.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &q.Provenance); err != nil {
			return nil, fmt.Errorf("decode generation metadata: %w", err)
		}
	}
	return &q, nil
}

func (r *questionRepo) ExistsByType(ctx context.Context, sessionID int64, qType domain.QuestionType) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM questions WHERE session_id = $1 AND question_type = $2)`,
		sessionID, string(qType),
	).Scan(&exists)
	return exists, err
}

// CreateBatch inserts all questions in one transaction and fills their ids.
func (r *questionRepo) CreateBatch(ctx context.Context, questions []domain.Question) error {
	if len(questions) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO questions (session_id, question_type, text, expected_skills, difficulty, focus_area,
			input_output_format, sort_order, time_limit, time_limit_unit, is_dynamic, generation_metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb)
		RETURNING id, created_at`
	for i := range questions {
		q := &questions[i]
		meta, err := json.Marshal(q.Provenance)
		if err != nil {
			return fmt.Errorf("marshal generation metadata: %w", err)
		}
		skills := q.ExpectedSkills
		if skills == nil {
			skills = []string{}
		}
		if err := tx.QueryRow(ctx, query,
			q.SessionID, string(q.Type), q.Text, pq.Array(skills), q.Difficulty, q.FocusArea,
			q.InputOutputFormat, q.Order, q.TimeLimit, string(q.TimeLimitUnit), q.IsDynamic, string(meta),
		).Scan(&q.ID, &q.CreatedAt); err != nil {
			return mapError(err)
		}
	}
	return tx.Commit(ctx)
}

func (r *questionRepo) ListBySession(ctx context.Context, sessionID int64) ([]domain.Question, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE session_id = $1 ORDER BY sort_order, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *questionRepo) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	return scanQuestion(r.db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}
