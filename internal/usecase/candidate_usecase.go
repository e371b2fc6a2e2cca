package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/security"
	"go-interview-backend/pkg/security/antivirus"
	"go-interview-backend/pkg/storage"
	"go-interview-backend/pkg/validation"
)

// Dispatcher starts the background pipeline for a candidate.
type Dispatcher interface {
	Dispatch(ctx context.Context, candidateID int64) error
}

type candidateUsecase struct {
	candidateRepo domain.CandidateRepository
	jobRepo       domain.JobRepository
	uploads       uploadGuard
	dispatcher    Dispatcher
	validate      *validator.Validate
}

func NewCandidateUsecase(
	candidateRepo domain.CandidateRepository,
	jobRepo domain.JobRepository,
	store storage.FileStore,
	scanner antivirus.Scanner,
	dispatcher Dispatcher,
	validate *validator.Validate,
) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo: candidateRepo,
		jobRepo:       jobRepo,
		uploads:       uploadGuard{store: store, scanner: scanner},
		dispatcher:    dispatcher,
		validate:      validate,
	}
}

func (u *candidateUsecase) requireJob(ctx context.Context, jobID int64) error {
	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		return notFoundOr(err, "Job not found")
	}
	return nil
}

func (u *candidateUsecase) AddCandidate(ctx context.Context, jobID int64, in domain.ManualCandidateInput) (*domain.Candidate, error) {
	if err := u.requireJob(ctx, jobID); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.ResumeURL = strings.TrimSpace(in.ResumeURL)
	if err := u.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	exists, err := u.candidateRepo.ExistsByJobAndEmail(ctx, jobID, in.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("Duplicate email: " + in.Email)
	}

	c := &domain.Candidate{JobID: jobID, Name: in.Name, Email: in.Email}
	if in.ResumeURL != "" {
		c.ResumeURL = &in.ResumeURL
	}
	if in.File != nil {
		data, err := u.uploads.check(ctx, security.KindResume, in.File, maxResumeBytes)
		if err != nil {
			return nil, err
		}
		key, err := u.uploads.put(ctx, "resumes", in.File.Filename, in.File.ContentType, data)
		if err != nil {
			return nil, err
		}
		name := in.File.Filename
		c.ResumeFileKey = &key
		c.ResumeFileName = &name
	}

	if err := u.candidateRepo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("Duplicate email: " + in.Email)
		}
		return nil, apperror.Internal(err)
	}

	u.dispatch(ctx, c)
	return c, nil
}

// BulkUpload creates one candidate per sheet row. Row failures are reported
// and never stop the batch.
func (u *candidateUsecase) BulkUpload(ctx context.Context, jobID int64, file domain.UploadedFile) (*domain.BulkUploadResult, error) {
	if err := u.requireJob(ctx, jobID); err != nil {
		return nil, err
	}

	var (
		records []sheetRecord
		err     error
	)
	switch extOf(file.Filename) {
	case ".csv":
		records, err = readCSVRecords(file.Content)
	case ".xlsx":
		records, err = readXLSXRecords(file.Content)
	default:
		return nil, apperror.BadRequest("Unsupported file type. Upload a .csv or .xlsx file")
	}
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	result := &domain.BulkUploadResult{Success: []string{}, Errors: []domain.RowError{}}
	for _, rec := range records {
		email, rowErr := u.addRow(ctx, jobID, rec)
		if rowErr != "" {
			result.Errors = append(result.Errors, domain.RowError{Row: rec, Error: rowErr})
			continue
		}
		result.Success = append(result.Success, email)
	}

	logger.Log.Info("Bulk upload processed",
		"job_id", jobID,
		"created", len(result.Success),
		"rejected", len(result.Errors),
	)
	return result, nil
}

func (u *candidateUsecase) addRow(ctx context.Context, jobID int64, rec sheetRecord) (string, string) {
	in := domain.ManualCandidateInput{
		Name:      rec.column("candidate name", "name"),
		Email:     rec.column("candidate email", "email"),
		ResumeURL: rec.column("resume link", "resume url", "link", "resume_url"),
	}
	if in.Email == "" {
		return "", "Missing email column"
	}
	if in.Name == "" {
		in.Name = "Unknown"
	}

	exists, err := u.candidateRepo.ExistsByJobAndEmail(ctx, jobID, in.Email)
	if err != nil {
		logger.Log.Error("Duplicate check failed", "job_id", jobID, "error", err)
		return "", "Failed to check existing candidates"
	}
	if exists {
		return "", "Duplicate email: " + in.Email
	}

	if err := u.validate.Struct(in); err != nil {
		return "", strings.Join(validation.FormatValidationErrors(err), "; ")
	}

	c := &domain.Candidate{JobID: jobID, Name: in.Name, Email: in.Email}
	if in.ResumeURL != "" {
		c.ResumeURL = &in.ResumeURL
	}
	if err := u.candidateRepo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return "", "Duplicate email: " + in.Email
		}
		logger.Log.Error("Failed to create candidate", "job_id", jobID, "email", security.MaskEmail(in.Email), "error", err)
		return "", fmt.Sprintf("Failed to save candidate: %v", err)
	}

	u.dispatch(ctx, c)
	return c.Email, ""
}

func (u *candidateUsecase) dispatch(ctx context.Context, c *domain.Candidate) {
	if err := u.dispatcher.Dispatch(ctx, c.ID); err != nil {
		logger.Log.Error("Failed to dispatch pipeline", "candidate_id", c.ID, "error", err)
		return
	}
	logger.Log.Info("Pipeline dispatched", "candidate_id", c.ID, "job_id", c.JobID)
}
