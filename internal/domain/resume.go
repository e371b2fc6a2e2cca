package domain

import (
	"context"
	"time"
)

// ExtractionSource tells which stage produced a ResumeMetadata.
type ExtractionSource string

const (
	ExtractionAI        ExtractionSource = "ai"
	ExtractionHeuristic ExtractionSource = "heuristic"
)

// ResumeMetadata is the structured view of a resume.
type ResumeMetadata struct {
	FullName        string               `json:"full_name"`
	Email           string               `json:"email"`
	TopSkills       []string             `json:"top_skills"`
	ExperienceYears int                  `json:"experience_years"`
	Summary         string               `json:"summary"`
	Education       string               `json:"education"`
	Provenance      ExtractionProvenance `json:"provenance"`
}

type ExtractionProvenance struct {
	Source ExtractionSource `json:"source"`
	Model  string           `json:"model,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

// Resume is one-to-one with a candidate and overwritten on every pipeline run.
type Resume struct {
	ID          int64          `json:"id"`
	CandidateID int64          `json:"candidate_id"`
	RawText     string         `json:"raw_text"`
	Metadata    ResumeMetadata `json:"extracted_metadata"`
	ParsedAt    time.Time      `json:"parsed_at"`
}

type ResumeRepository interface {
	Upsert(ctx context.Context, r *Resume) error
	GetByCandidateID(ctx context.Context, candidateID int64) (*Resume, error)
}
