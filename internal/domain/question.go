package domain

import (
	"context"
	"time"
)

type QuestionType string

const (
	QuestionOral   QuestionType = "ORAL"
	QuestionCoding QuestionType = "CODING"
)

// TimeLimitUnit names the unit of Question.TimeLimit. Oral limits are stored
// in seconds and coding limits in minutes.
type TimeLimitUnit string

const (
	TimeLimitSeconds TimeLimitUnit = "seconds"
	TimeLimitMinutes TimeLimitUnit = "minutes"
)

// GenerationSource identifies the generator stage that produced a question.
type GenerationSource string

const (
	SourceAI              GenerationSource = "ai"
	SourceKeywordFallback GenerationSource = "keyword_fallback"
	SourceStaticFallback  GenerationSource = "static_fallback"
)

// IsFallback reports whether the question came from a deterministic stage.
func (s GenerationSource) IsFallback() bool {
	switch s {
	case SourceAI:
		return false
	case SourceKeywordFallback, SourceStaticFallback:
		return true
	}
	return true
}

// Provenance records who generated a question, when, and from what inputs.
type Provenance struct {
	Source         GenerationSource `json:"source"`
	Model          string           `json:"model,omitempty"`
	CandidateID    int64            `json:"candidate_id"`
	JobID          int64            `json:"job_id"`
	SessionID      int64            `json:"session_id"`
	GeneratedAt    time.Time        `json:"generated_at"`
	ResumeChars    int              `json:"resume_chars"`
	DetectedSkills []string         `json:"detected_skills,omitempty"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
}

type Question struct {
	ID                int64         `json:"id"`
	SessionID         int64         `json:"session_id"`
	Type              QuestionType  `json:"question_type"`
	Text              string        `json:"text"`
	ExpectedSkills    []string      `json:"expected_skills"`
	Difficulty        string        `json:"difficulty"`
	FocusArea         string        `json:"focus_area"`
	InputOutputFormat string        `json:"input_output_format,omitempty"`
	Order             int           `json:"order"`
	TimeLimit         int           `json:"time_limit"`
	TimeLimitUnit     TimeLimitUnit `json:"time_limit_unit"`
	IsDynamic         bool          `json:"is_dynamic"`
	Provenance        Provenance    `json:"generation_metadata"`
	CreatedAt         time.Time     `json:"created_at"`
	Answers           []Answer      `json:"answers,omitempty"`
}

// Answer is a candidate response; Marks and Feedback are filled by graders
// outside this service.
type Answer struct {
	ID           int64     `json:"id"`
	QuestionID   int64     `json:"question_id"`
	ResponseText *string   `json:"response_text"`
	ResponseFile *string   `json:"response_file"`
	Marks        *float64  `json:"marks"`
	Feedback     *string   `json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
}

type QuestionRepository interface {
	ExistsByType(ctx context.Context, sessionID int64, qType QuestionType) (bool, error)
	CreateBatch(ctx context.Context, questions []Question) error
	ListBySession(ctx context.Context, sessionID int64) ([]Question, error)
	GetByID(ctx context.Context, id int64) (*Question, error)
}

type AnswerRepository interface {
	Create(ctx context.Context, a *Answer) error
	ListBySession(ctx context.Context, sessionID int64) ([]Answer, error)
}
