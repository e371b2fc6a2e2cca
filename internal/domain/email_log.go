package domain

import (
	"context"
	"time"
)

// EmailStatus is the delivery state of an EmailLog.
type EmailStatus string

const (
	EmailPending EmailStatus = "PENDING"
	EmailSent    EmailStatus = "SENT"
	EmailFailed  EmailStatus = "FAILED"
)

// Valid reports whether s is one of the known statuses.
func (s EmailStatus) Valid() bool {
	switch s {
	case EmailPending, EmailSent, EmailFailed:
		return true
	}
	return false
}

// EmailLog is created before a delivery attempt and updated afterwards.
type EmailLog struct {
	ID          int64       `json:"id"`
	CandidateID int64       `json:"candidate_id"`
	Status      EmailStatus `json:"status"`
	RetryCount  int         `json:"retry_count"`
	LastError   *string     `json:"last_error"`
	SentAt      *time.Time  `json:"sent_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

type EmailLogRepository interface {
	Create(ctx context.Context, l *EmailLog) error
	GetByID(ctx context.Context, id int64) (*EmailLog, error)
	Update(ctx context.Context, l *EmailLog) error
	ListByCandidate(ctx context.Context, candidateID int64) ([]EmailLog, error)
}

// Notifier sends the interview invitation for a candidate.
type Notifier interface {
	SendInvitation(ctx context.Context, candidate *Candidate, job *Job, token string) (*EmailLog, error)
	RetryFailed(ctx context.Context, emailLogID int64) (*EmailLog, error)
}
