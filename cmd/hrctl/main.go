// Command hrctl is the operator CLI: create HR users, print a job's candidate
// board and re-run the pipeline for one candidate.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olekukonko/tablewriter"

	"go-interview-backend/config"
	"go-interview-backend/internal/app"
	"go-interview-backend/internal/repository/postgres"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/auth"
	"go-interview-backend/pkg/database"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/storage"
	"go-interview-backend/pkg/validation"
)

const usage = `usage: hrctl <command> [flags]

commands:
  create-user  -username NAME -email EMAIL -password PASS [-role hr|admin]
  status       -job ID
  reprocess    -candidate ID
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fail("load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx := context.Background()
	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, 1)
	if err != nil {
		fail("connect database: %v", err)
	}
	defer pool.Close()

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "create-user":
		err = createUser(ctx, pool, args)
	case "status":
		err = status(ctx, cfg, pool, args)
	case "reprocess":
		err = reprocess(ctx, cfg, pool, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fail("%s: %v", os.Args[1], err)
	}
}

func fail(format string, args ...any) {
	color.Red(format, args...)
	os.Exit(1)
}

func createUser(ctx context.Context, pool *pgxpool.Pool, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	username := fs.String("username", "", "login name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (8-72 characters)")
	role := fs.String("role", "hr", "hr or admin")
	_ = fs.Parse(args)

	validate := validator.New()
	validation.RegisterValidators(validate)
	// Token issuing is not used here.
	authUC := usecase.NewAuthUsecase(postgres.NewUserRepository(pool), auth.NewTokenManager("", 0), nil, nil, validate)

	user, err := authUC.CreateUser(ctx, *username, *email, *password, *role)
	if err != nil {
		return err
	}
	color.Green("Created %s user %q (id %d)", user.Role, user.Username, user.ID)
	return nil
}

func status(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	jobID := fs.Int64("job", 0, "job id")
	_ = fs.Parse(args)

	jobUC := usecase.NewJobUsecase(postgres.NewJobRepository(pool), postgres.NewCandidateRepository(pool), validator.New(), cfg.FrontendURL)
	job, err := jobUC.GetJob(ctx, *jobID)
	if err != nil {
		return err
	}
	board, err := jobUC.GetStatusBoard(ctx, *jobID)
	if err != nil {
		return err
	}

	color.Cyan("\n%s (%d candidates)", job.Title, len(board))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Email", "Status", "Link"})
	for _, row := range board {
		table.Append([]string{fmt.Sprintf("%d", row.ID), row.Name, row.Email, row.Status, row.Link})
	}
	table.Render()
	return nil
}

func reprocess(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, args []string) error {
	fs := flag.NewFlagSet("reprocess", flag.ExitOnError)
	candidateID := fs.Int64("candidate", 0, "candidate id")
	_ = fs.Parse(args)
	if *candidateID <= 0 {
		return fmt.Errorf("-candidate is required")
	}

	store, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	pipeline := app.NewPipeline(ctx, cfg, pool, store)
	defer pipeline.Close()

	start := time.Now()
	pipeline.Processor.Process(ctx, *candidateID)
	color.Green("Pipeline finished for candidate %d in %s (see logs for step results)", *candidateID, time.Since(start).Round(time.Millisecond))
	return nil
}
