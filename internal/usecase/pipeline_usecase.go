package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/screening"
	"go-interview-backend/pkg/logger"
)

// ResumeResolver turns a candidate's resume source into text. It never fails.
type ResumeResolver interface {
	Resolve(ctx context.Context, c *domain.Candidate) string
}

type MetadataExtractor interface {
	Extract(ctx context.Context, in screening.Input) domain.ResumeMetadata
}

type QuestionGenerator interface {
	Oral(ctx context.Context, in screening.Input) screening.Generated
	Coding(ctx context.Context, in screening.Input) screening.Generated
}

// PipelineDeps groups the collaborators of the onboarding pipeline.
type PipelineDeps struct {
	Candidates domain.CandidateRepository
	Jobs       domain.JobRepository
	Resumes    domain.ResumeRepository
	Sessions   domain.SessionRepository
	Links      domain.LinkRepository
	Questions  domain.QuestionRepository
	Resolver   ResumeResolver
	Extractor  MetadataExtractor
	Generator  QuestionGenerator
	Notifier   domain.Notifier
	LinkTTL    time.Duration
}

type pipelineUsecase struct {
	PipelineDeps
	now      func() time.Time
	newToken func() string
}

func NewPipelineUsecase(deps PipelineDeps) domain.CandidateProcessor {
	if deps.LinkTTL <= 0 {
		deps.LinkTTL = 7 * 24 * time.Hour
	}
	return &pipelineUsecase{
		PipelineDeps: deps,
		now:          time.Now,
		newToken:     uuid.NewString,
	}
}

// Process runs every onboarding step for one candidate in order. Failures and
// panics end the unit; writes made by earlier steps are kept.
func (u *pipelineUsecase) Process(ctx context.Context, candidateID int64) {
	start := u.now()
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Pipeline panicked",
				"candidate_id", candidateID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()

	if err := u.run(ctx, candidateID); err != nil {
		logger.Log.Error("Pipeline failed", "candidate_id", candidateID, "error", err)
		return
	}
	logger.Log.Info("Pipeline completed", "candidate_id", candidateID, "duration_ms", time.Since(start).Milliseconds())
}

func (u *pipelineUsecase) run(ctx context.Context, candidateID int64) error {
	c, err := u.Candidates.GetByID(ctx, candidateID)
	if err != nil {
		return fmt.Errorf("load candidate: %w", err)
	}
	job, err := u.Jobs.GetByID(ctx, c.JobID)
	if err != nil {
		return fmt.Errorf("load job %d: %w", c.JobID, err)
	}

	text := u.Resolver.Resolve(ctx, c)
	logger.Log.Info("Resume resolved", "candidate_id", c.ID, "chars", utf8.RuneCountInString(text))

	meta := u.Extractor.Extract(ctx, screening.NewInput(c, job, text, 0))
	logger.Log.Info("Metadata extracted",
		"candidate_id", c.ID,
		"source", meta.Provenance.Source,
		"reason", meta.Provenance.Reason,
	)
	if err := u.Resumes.Upsert(ctx, &domain.Resume{CandidateID: c.ID, RawText: text, Metadata: meta}); err != nil {
		return fmt.Errorf("save resume: %w", err)
	}

	session, created, err := u.Sessions.GetOrCreate(ctx, c.ID, job.SessionConfig)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	logger.Log.Info("Interview session ready", "candidate_id", c.ID, "session_id", session.ID, "created", created)

	link, created, err := u.Links.GetOrCreate(ctx, session.ID, u.newToken(), u.now().Add(u.LinkTTL))
	if err != nil {
		return fmt.Errorf("link: %w", err)
	}
	logger.Log.Info("Interview link ready", "candidate_id", c.ID, "created", created, "expires_at", link.ExpiresAt)

	if err := u.generate(ctx, domain.QuestionOral, c, job, session, text); err != nil {
		return err
	}
	if err := u.generate(ctx, domain.QuestionCoding, c, job, session, text); err != nil {
		return err
	}

	if _, err := u.Notifier.SendInvitation(ctx, c, job, link.Token); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// generate creates the questions of one type unless the session already has
// some. Oral questions take orders [0, N) and coding questions [N, N+M),
// with N and M read from the session snapshot.
func (u *pipelineUsecase) generate(ctx context.Context, qType domain.QuestionType, c *domain.Candidate, job *domain.Job, s *domain.InterviewSession, text string) error {
	exists, err := u.Questions.ExistsByType(ctx, s.ID, qType)
	if err != nil {
		return fmt.Errorf("check %s questions: %w", qType, err)
	}
	if exists {
		logger.Log.Info("Questions already exist, skipping", "candidate_id", c.ID, "type", qType)
		return nil
	}

	var (
		gen       screening.Generated
		offset    int
		limit     int
		limitUnit domain.TimeLimitUnit
	)
	switch qType {
	case domain.QuestionOral:
		gen = u.Generator.Oral(ctx, screening.NewInput(c, job, text, s.OralQuestionCount))
		limit, limitUnit = s.ThinkingTime*60, domain.TimeLimitSeconds
	case domain.QuestionCoding:
		gen = u.Generator.Coding(ctx, screening.NewInput(c, job, text, s.CodingQuestionCount))
		offset = s.OralQuestionCount
		limit, limitUnit = s.CodingTime, domain.TimeLimitMinutes
	}

	prov := domain.Provenance{
		Source:         gen.Source,
		Model:          gen.Model,
		CandidateID:    c.ID,
		JobID:          job.ID,
		SessionID:      s.ID,
		GeneratedAt:    u.now().UTC(),
		ResumeChars:    utf8.RuneCountInString(text),
		DetectedSkills: gen.DetectedSkills,
		FallbackReason: gen.FallbackReason,
	}

	questions := make([]domain.Question, 0, len(gen.Drafts))
	for i, d := range gen.Drafts {
		questions = append(questions, domain.Question{
			SessionID:         s.ID,
			Type:              qType,
			Text:              d.Text,
			ExpectedSkills:    d.ExpectedSkills,
			Difficulty:        d.Difficulty,
			FocusArea:         d.FocusArea,
			InputOutputFormat: d.InputOutputFormat,
			Order:             offset + i,
			TimeLimit:         limit,
			TimeLimitUnit:     limitUnit,
			IsDynamic:         true,
			Provenance:        prov,
		})
	}
	if err := u.Questions.CreateBatch(ctx, questions); err != nil {
		return fmt.Errorf("save %s questions: %w", qType, err)
	}

	logger.Log.Info("Questions generated",
		"candidate_id", c.ID,
		"type", qType,
		"count", len(questions),
		"source", gen.Source,
		"fallback", gen.Source.IsFallback(),
		"reason", gen.FallbackReason,
	)
	return nil
}
