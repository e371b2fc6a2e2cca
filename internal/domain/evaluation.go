package domain

import (
	"context"
	"time"
)

// Evaluation is written by the external grading step.
type Evaluation struct {
	ID           int64   `json:"id"`
	SessionID    int64   `json:"session_id"`
	OverallScore float64 `json:"overall_score"`
	Summary      string  `json:"summary"`
	CheatingFlag bool    `json:"cheating_flag"`
	Rank         *int    `json:"rank"`
}

// CheatingLog is one proctoring event.
type CheatingLog struct {
	ID          int64     `json:"id"`
	SessionID   int64     `json:"session_id"`
	EventType   string    `json:"event_type"`
	Details     string    `json:"details"`
	SnapshotKey *string   `json:"snapshot,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// RankingEntry is one line of a job ranking, best score first.
type RankingEntry struct {
	Rank     int     `json:"rank"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Score    float64 `json:"score"`
	Cheating bool    `json:"cheating"`
}

type EvaluationRepository interface {
	GetBySessionID(ctx context.Context, sessionID int64) (*Evaluation, error)
	// ListRankingByJob returns entries ordered by overall_score descending
	// with Rank left at zero.
	ListRankingByJob(ctx context.Context, jobID int64) ([]RankingEntry, error)
}

type CheatingLogRepository interface {
	Create(ctx context.Context, l *CheatingLog) error
	ListBySession(ctx context.Context, sessionID int64) ([]CheatingLog, error)
}
