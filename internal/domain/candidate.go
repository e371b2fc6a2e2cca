package domain

import (
	"context"
	"io"
	"time"
)

// Candidate is an applicant for one job. (job_id, email) is unique.
// ResumeFileKey and ResumeURL are both optional and never both set by intake.
type Candidate struct {
	ID             int64     `json:"id"`
	JobID          int64     `json:"job_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ResumeFileKey  *string   `json:"-"`
	ResumeFileName *string   `json:"resume_file,omitempty"`
	ResumeURL      *string   `json:"resume_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasResumeFile reports whether an uploaded document is attached.
func (c *Candidate) HasResumeFile() bool {
	return c.ResumeFileKey != nil && *c.ResumeFileKey != ""
}

// HasResumeURL reports whether an external resume link is attached.
func (c *Candidate) HasResumeURL() bool {
	return c.ResumeURL != nil && *c.ResumeURL != ""
}

// ManualCandidateInput is the form payload for adding a single candidate.
type ManualCandidateInput struct {
	Name      string `validate:"required,max=255,valid_name"`
	Email     string `validate:"required,email,max=254"`
	ResumeURL string `validate:"omitempty,url,max=500"`
	File      *UploadedFile
}

// UploadedFile is a multipart file handed from the transport layer.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// RowError reports one rejected row of a bulk upload.
type RowError struct {
	Row   map[string]string `json:"row"`
	Error string            `json:"error"`
}

// BulkUploadResult lists created emails and rejected rows; a bad row never
// aborts the batch.
type BulkUploadResult struct {
	Success []string   `json:"success"`
	Errors  []RowError `json:"errors"`
}

type CandidateRepository interface {
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id int64) (*Candidate, error)
	ExistsByJobAndEmail(ctx context.Context, jobID int64, email string) (bool, error)
	ListStatusByJob(ctx context.Context, jobID int64) ([]CandidateStatusRow, error)
}

// CandidateStatusRow is the raw join used to build a CandidateStatus.
type CandidateStatusRow struct {
	Candidate
	SessionStatus *SessionStatus
	LinkToken     *string
}

type CandidateUsecase interface {
	AddCandidate(ctx context.Context, jobID int64, in ManualCandidateInput) (*Candidate, error)
	BulkUpload(ctx context.Context, jobID int64, file UploadedFile) (*BulkUploadResult, error)
}
