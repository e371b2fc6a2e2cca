// Package app assembles the candidate pipeline shared by the API server and
// the operator CLI.
package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/config"
	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/repository/postgres"
	"go-interview-backend/internal/resume"
	"go-interview-backend/internal/screening"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/ai"
	"go-interview-backend/pkg/email"
	"go-interview-backend/pkg/storage"
)

// Pipeline is the wired onboarding pipeline and its notifier.
type Pipeline struct {
	Processor domain.CandidateProcessor
	Notifier  domain.Notifier
	completer ai.Completer
}

// Close releases the AI client.
func (p *Pipeline) Close() error {
	return p.completer.Close()
}

func NewPipeline(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, store storage.FileStore) *Pipeline {
	candidates := postgres.NewCandidateRepository(pool)
	jobs := postgres.NewJobRepository(pool)
	sessions := postgres.NewSessionRepository(pool)
	links := postgres.NewLinkRepository(pool)

	notifier := usecase.NewNotifierUsecase(
		postgres.NewEmailLogRepository(pool),
		candidates, jobs, sessions, links,
		email.NewFromConfig(cfg),
		cfg.FrontendURL,
	)

	completer := ai.NewFromConfig(ctx, cfg)
	processor := usecase.NewPipelineUsecase(usecase.PipelineDeps{
		Candidates: candidates,
		Jobs:       jobs,
		Resumes:    postgres.NewResumeRepository(pool),
		Sessions:   sessions,
		Links:      links,
		Questions:  postgres.NewQuestionRepository(pool),
		Resolver:   resume.NewResolver(store, nil, cfg.ResumeFetchTimeout),
		Extractor:  screening.NewMetadataExtractor(completer),
		Generator:  screening.NewQuestionGenerator(completer),
		Notifier:   notifier,
		LinkTTL:    cfg.InterviewLinkTTL,
	})

	return &Pipeline{Processor: processor, Notifier: notifier, completer: completer}
}
