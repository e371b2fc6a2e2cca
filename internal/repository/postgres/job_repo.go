package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, title, description, required_skills, experience_level,
	oral_question_count, coding_question_count, thinking_time, recording_time, coding_time,
	created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }, job *domain.Job, extra ...any) error {
	dest := []any{
		&job.ID, &job.Title, &job.Description, &job.RequiredSkills, &job.ExperienceLevel,
		&job.OralQuestionCount, &job.CodingQuestionCount, &job.ThinkingTime, &job.RecordingTime, &job.CodingTime,
		&job.CreatedAt, &job.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (title, description, required_skills, experience_level,
		oral_question_count, coding_question_count, thinking_time, recording_time, coding_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		job.Title, job.Description, job.RequiredSkills, job.ExperienceLevel,
		job.OralQuestionCount, job.CodingQuestionCount, job.ThinkingTime, job.RecordingTime, job.CodingTime,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	return mapError(err)
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	var job domain.Job
	if err := scanJob(r.db.QueryRow(ctx, query, id), &job); err != nil {
		return nil, mapError(err)
	}
	return &job, nil
}

func (r *jobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.JobSummary, int64, error) {
	query := `SELECT j.id, j.title, j.description, j.required_skills, j.experience_level,
			j.oral_question_count, j.coding_question_count, j.thinking_time, j.recording_time, j.coding_time,
			j.created_at, j.updated_at,
			(SELECT COUNT(*) FROM candidates c WHERE c.job_id = j.id),
			(SELECT COUNT(*) FROM candidates c
				JOIN interview_sessions s ON s.candidate_id = c.id
				WHERE c.job_id = j.id AND s.status = 'COMPLETED')
		FROM jobs j
		ORDER BY j.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []domain.JobSummary
	for rows.Next() {
		var s domain.JobSummary
		if err := scanJob(rows, &s.Job, &s.CandidatesCount, &s.CompletedInterviewsCount); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET title = $1, description = $2, required_skills = $3, experience_level = $4,
			oral_question_count = $5, coding_question_count = $6, thinking_time = $7,
			recording_time = $8, coding_time = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		job.Title, job.Description, job.RequiredSkills, job.ExperienceLevel,
		job.OralQuestionCount, job.CodingQuestionCount, job.ThinkingTime, job.RecordingTime, job.CodingTime,
		job.ID,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	return mapError(err)
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
