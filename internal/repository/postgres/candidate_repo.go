package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type candidateRepo struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	query := `INSERT INTO candidates (job_id, name, email, resume_file_key, resume_file_name, resume_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		c.JobID, c.Name, c.Email, c.ResumeFileKey, c.ResumeFileName, c.ResumeURL,
	).Scan(&c.ID, &c.CreatedAt)
	return mapError(err)
}

func (r *candidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	query := `SELECT id, job_id, name, email, resume_file_key, resume_file_name, resume_url, created_at
		FROM candidates WHERE id = $1`
	var c domain.Candidate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.JobID, &c.Name, &c.Email, &c.ResumeFileKey, &c.ResumeFileName, &c.ResumeURL, &c.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *candidateRepo) ExistsByJobAndEmail(ctx context.Context, jobID int64, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM candidates WHERE job_id = $1 AND email = $2)`, jobID, email,
	).Scan(&exists)
	return exists, err
}

func (r *candidateRepo) ListStatusByJob(ctx context.Context, jobID int64) ([]domain.CandidateStatusRow, error) {
	query := `SELECT c.id, c.job_id, c.name, c.email, c.resume_file_key, c.resume_file_name, c.resume_url, c.created_at,
			s.status, l.token
		FROM candidates c
		LEFT JOIN interview_sessions s ON s.candidate_id = c.id
		LEFT JOIN interview_links l ON l.session_id = s.id
		WHERE c.job_id = $1
		ORDER BY c.created_at DESC, c.id DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CandidateStatusRow
	for rows.Next() {
		var row domain.CandidateStatusRow
		c := &row.Candidate
		if err := rows.Scan(
			&c.ID, &c.JobID, &c.Name, &c.Email, &c.ResumeFileKey, &c.ResumeFileName, &c.ResumeURL, &c.CreatedAt,
			&row.SessionStatus, &row.LinkToken,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
