package domain

import (
	"context"
	"time"
)

// Job is an HR job posting together with its interview configuration.
// Edits never reach sessions that already exist; see SessionConfig.
type Job struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title" validate:"required,max=255"`
	Description     string    `json:"description" validate:"required"`
	RequiredSkills  string    `json:"required_skills" validate:"required"`
	ExperienceLevel string    `json:"experience_level" validate:"required,max=100"`
	SessionConfig             // interview configuration
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionConfig holds the interview parameters that are copied into a
// session at creation time.
type SessionConfig struct {
	OralQuestionCount   int `json:"oral_question_count" validate:"gte=0,lte=50"`
	CodingQuestionCount int `json:"coding_question_count" validate:"gte=0,lte=10"`
	ThinkingTime        int `json:"thinking_time" validate:"gte=0"`  // minutes per oral question
	RecordingTime       int `json:"recording_time" validate:"gte=0"` // minutes per oral question
	CodingTime          int `json:"coding_time" validate:"gte=0"`    // minutes for the coding task
}

// DefaultSessionConfig mirrors the defaults HR sees when creating a job.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		OralQuestionCount:   5,
		CodingQuestionCount: 2,
		ThinkingTime:        1,
		RecordingTime:       3,
		CodingTime:          60,
	}
}

// JobSummary is a job row annotated with candidate counters for list views.
type JobSummary struct {
	Job
	CandidatesCount          int64 `json:"candidates_count"`
	CompletedInterviewsCount int64 `json:"completed_interviews_count"`
}

// CandidateStatus is one row of the job status board.
type CandidateStatus struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Link       string  `json:"link"`
	Status     string  `json:"status"`
	ResumeFile *string `json:"resume_file"`
	ResumeURL  *string `json:"resume_url"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	Fetch(ctx context.Context, limit, offset int) ([]JobSummary, int64, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, page, pageSize int) ([]JobSummary, int64, error)
	UpdateJob(ctx context.Context, job *Job) error
	DeleteJob(ctx context.Context, id int64) error
	GetStatusBoard(ctx context.Context, jobID int64) ([]CandidateStatus, error)
}
