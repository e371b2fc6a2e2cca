package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type resumeRepo struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

// Upsert overwrites the candidate's resume row.
func (r *resumeRepo) Upsert(ctx context.Context, res *domain.Resume) error {
	meta, err := json.Marshal(res.Metadata)
	if err != nil {
		return fmt.Errorf("marshal resume metadata: %w", err)
	}
	query := `INSERT INTO resumes (candidate_id, raw_text, extracted_metadata, parsed_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (candidate_id) DO UPDATE
			SET raw_text = EXCLUDED.raw_text,
				extracted_metadata = EXCLUDED.extracted_metadata,
				parsed_at = EXCLUDED.parsed_at
		RETURNING id, parsed_at`
	err = r.db.QueryRow(ctx, query, res.CandidateID, res.RawText, string(meta)).Scan(&res.ID, &res.ParsedAt)
	return mapError(err)
}

func (r *resumeRepo) GetByCandidateID(ctx context.Context, candidateID int64) (*domain.Resume, error) {
	query := `SELECT id, candidate_id, raw_text, extracted_metadata, parsed_at FROM resumes WHERE candidate_id = $1`
	var res domain.Resume
	var meta []byte
	if err := r.db.QueryRow(ctx, query, candidateID).Scan(&res.ID, &res.CandidateID, &res.RawText, &meta, &res.ParsedAt); err != nil {
		return nil, mapError(err)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &res.Metadata); err != nil {
			return nil, fmt.Errorf("decode resume metadata: %w", err)
		}
	}
	return &res, nil
}
