package domain

import (
	"context"
	"time"
)

// SessionStatus is the interview lifecycle state.
type SessionStatus string

const (
	SessionNotAttempted SessionStatus = "NOT_ATTEMPTED"
	SessionInProgress   SessionStatus = "IN_PROGRESS"
	SessionCompleted    SessionStatus = "COMPLETED"
	SessionExpired      SessionStatus = "EXPIRED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionExpired
}

// InterviewSession is created once per candidate. Its SessionConfig is a
// snapshot of the job's configuration and is never updated afterwards.
type InterviewSession struct {
	ID            int64         `json:"id"`
	CandidateID   int64         `json:"candidate_id"`
	Status        SessionStatus `json:"status"`
	SessionConfig               // snapshot
	CreatedAt     time.Time     `json:"created_at"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// InterviewLink is the single-use access token for a session.
type InterviewLink struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}

// IsExpired is true once the link has been used or its expiry has passed.
func (l *InterviewLink) IsExpired(now time.Time) bool {
	return l.IsUsed || now.After(l.ExpiresAt)
}

type SessionRepository interface {
	// GetOrCreate returns the candidate's session, inserting one with cfg
	// only when none exists. created reports whether the insert happened.
	GetOrCreate(ctx context.Context, candidateID int64, cfg SessionConfig) (session *InterviewSession, created bool, err error)
	GetByID(ctx context.Context, id int64) (*InterviewSession, error)
	GetByCandidateID(ctx context.Context, candidateID int64) (*InterviewSession, error)
	UpdateStatus(ctx context.Context, id int64, status SessionStatus, at time.Time) error
}

type LinkRepository interface {
	GetOrCreate(ctx context.Context, sessionID int64, token string, expiresAt time.Time) (link *InterviewLink, created bool, err error)
	GetByToken(ctx context.Context, token string) (*InterviewLink, error)
	GetBySessionID(ctx context.Context, sessionID int64) (*InterviewLink, error)
	MarkUsed(ctx context.Context, id int64) error
}

// InterviewView is what a candidate sees after opening a valid link.
type InterviewView struct {
	CandidateName string            `json:"candidate_name"`
	JobTitle      string            `json:"job_title"`
	Session       *InterviewSession `json:"session"`
	ExpiresAt     time.Time         `json:"expires_at"`
	Questions     []Question        `json:"questions"`
}

// AnswerInput is a candidate's response to one question.
type AnswerInput struct {
	QuestionID   int64
	ResponseText string
	File         *UploadedFile
}

// CheatingEventInput is a proctoring event reported by the interview client.
type CheatingEventInput struct {
	EventType string `validate:"required,max=100"`
	Details   string `validate:"max=2000"`
	Snapshot  *UploadedFile
}

type InterviewUsecase interface {
	Open(ctx context.Context, token string) (*InterviewView, error)
	Start(ctx context.Context, token string) (*InterviewSession, error)
	SubmitAnswer(ctx context.Context, token string, in AnswerInput) (*Answer, error)
	LogCheatingEvent(ctx context.Context, token string, in CheatingEventInput) (*CheatingLog, error)
	Complete(ctx context.Context, token string) (*InterviewSession, error)
}
