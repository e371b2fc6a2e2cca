package domain

import "context"

// CandidateDetail aggregates everything HR reviews for one candidate.
type CandidateDetail struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	ResumeText   string          `json:"resume_text"`
	Metadata     *ResumeMetadata `json:"extracted_metadata,omitempty"`
	Questions    []Question      `json:"questions"`
	Evaluation   *Evaluation     `json:"evaluation"`
	CheatingLogs []CheatingLog   `json:"cheating_logs"`
	EmailLogs    []EmailLog      `json:"email_logs"`
}

type ReviewUsecase interface {
	GetCandidateDetail(ctx context.Context, candidateID int64) (*CandidateDetail, error)
	GetRanking(ctx context.Context, jobID int64) ([]RankingEntry, error)
	ExportRanking(ctx context.Context, jobID int64, format string) ([]byte, string, error)
}

// CandidateProcessor runs the onboarding pipeline for one candidate.
type CandidateProcessor interface {
	Process(ctx context.Context, candidateID int64)
}
