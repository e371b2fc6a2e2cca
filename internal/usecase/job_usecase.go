package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/email"
	"go-interview-backend/pkg/validation"
)

// Status board placeholders shown before the pipeline has produced a
// session or link.
const (
	LinkPending    = "Generating..."
	StatusPending  = "Processing"
	defaultPerPage = 10
	maxPerPage     = 100
)

type jobUsecase struct {
	jobRepo       domain.JobRepository
	candidateRepo domain.CandidateRepository
	validate      *validator.Validate
	frontendURL   string
}

func NewJobUsecase(jobRepo domain.JobRepository, candidateRepo domain.CandidateRepository, validate *validator.Validate, frontendURL string) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		validate:      validate,
		frontendURL:   frontendURL,
	}
}

func (u *jobUsecase) validateJob(job *domain.Job) error {
	job.Title = strings.TrimSpace(job.Title)
	job.RequiredSkills = strings.TrimSpace(job.RequiredSkills)
	if err := u.validate.Struct(job); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, job *domain.Job) error {
	if err := u.validateJob(job); err != nil {
		return err
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, page, pageSize int) ([]domain.JobSummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPerPage
	}
	if pageSize > maxPerPage {
		pageSize = maxPerPage
	}
	offset := (page - 1) * pageSize

	jobs, total, err := u.jobRepo.Fetch(ctx, pageSize, offset)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return jobs, total, nil
}

// UpdateJob edits the posting. Sessions already created keep the
// configuration they were created with.
func (u *jobUsecase) UpdateJob(ctx context.Context, job *domain.Job) error {
	if err := u.validateJob(job); err != nil {
		return err
	}
	if err := u.jobRepo.Update(ctx, job); err != nil {
		return notFoundOr(err, "Job not found")
	}
	return nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, id int64) error {
	if err := u.jobRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Job not found")
	}
	return nil
}

func (u *jobUsecase) GetStatusBoard(ctx context.Context, jobID int64) ([]domain.CandidateStatus, error) {
	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, notFoundOr(err, "Job not found")
	}

	rows, err := u.candidateRepo.ListStatusByJob(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	board := make([]domain.CandidateStatus, 0, len(rows))
	for _, r := range rows {
		st := domain.CandidateStatus{
			ID:         r.ID,
			Name:       r.Name,
			Email:      r.Email,
			Link:       LinkPending,
			Status:     StatusPending,
			ResumeFile: r.ResumeFileName,
			ResumeURL:  r.ResumeURL,
		}
		if r.SessionStatus != nil {
			st.Status = string(*r.SessionStatus)
			if r.LinkToken != nil {
				st.Link = email.InterviewURL(u.frontendURL, *r.LinkToken)
			}
		}
		board = append(board, st)
	}
	return board, nil
}

// notFoundOr maps domain.ErrNotFound to a 404 with msg and anything else to
// an internal error.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(msg)
	}
	return apperror.Internal(err)
}
