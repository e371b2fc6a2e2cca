package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/imaging"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/security"
	"go-interview-backend/pkg/security/antivirus"
	"go-interview-backend/pkg/storage"
	"go-interview-backend/pkg/validation"
)

// InterviewDeps groups the collaborators of the candidate interview surface.
type InterviewDeps struct {
	Links        domain.LinkRepository
	Sessions     domain.SessionRepository
	Candidates   domain.CandidateRepository
	Jobs         domain.JobRepository
	Questions    domain.QuestionRepository
	Answers      domain.AnswerRepository
	CheatingLogs domain.CheatingLogRepository
	Store        storage.FileStore
	Scanner      antivirus.Scanner
	SecLogger    *security.SecurityLogger
	Validate     *validator.Validate
}

type interviewUsecase struct {
	InterviewDeps
	uploads uploadGuard
	now     func() time.Time
}

func NewInterviewUsecase(deps InterviewDeps) domain.InterviewUsecase {
	if deps.SecLogger == nil {
		deps.SecLogger = security.DefaultLogger()
	}
	return &interviewUsecase{
		InterviewDeps: deps,
		uploads:       uploadGuard{store: deps.Store, scanner: deps.Scanner},
		now:           time.Now,
	}
}

// access resolves token to its link and session. A link past its expiry
// moves a session that is not yet terminal to EXPIRED.
func (u *interviewUsecase) access(ctx context.Context, token string) (*domain.InterviewLink, *domain.InterviewSession, error) {
	link, err := u.Links.GetByToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ip, _, reqID := clientMeta(ctx)
			u.SecLogger.LogInvalidToken(ctx, token, ip, reqID, "unknown token")
			return nil, nil, apperror.NotFound("Interview link not found")
		}
		return nil, nil, apperror.Internal(err)
	}

	session, err := u.Sessions.GetByID(ctx, link.SessionID)
	if err != nil {
		return nil, nil, notFoundOr(err, "Interview session not found")
	}

	if session.Status == domain.SessionCompleted {
		return nil, nil, apperror.Gone("Interview already completed")
	}

	now := u.now()
	if link.IsExpired(now) {
		if !session.Status.IsTerminal() {
			if err := u.Sessions.UpdateStatus(ctx, session.ID, domain.SessionExpired, now); err != nil {
				logger.Log.Error("Failed to expire session", "session_id", session.ID, "error", err)
			} else {
				session.Status = domain.SessionExpired
			}
		}
		ip, _, reqID := clientMeta(ctx)
		u.SecLogger.LogInvalidToken(ctx, token, ip, reqID, "expired")
		return nil, nil, apperror.Gone("Interview link has expired")
	}
	if session.Status == domain.SessionExpired {
		return nil, nil, apperror.Gone("Interview link has expired")
	}
	return link, session, nil
}

func (u *interviewUsecase) Open(ctx context.Context, token string) (*domain.InterviewView, error) {
	link, session, err := u.access(ctx, token)
	if err != nil {
		return nil, err
	}
	c, err := u.Candidates.GetByID(ctx, session.CandidateID)
	if err != nil {
		return nil, notFoundOr(err, "Candidate not found")
	}
	job, err := u.Jobs.GetByID(ctx, c.JobID)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	questions, err := u.Questions.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	for i := range questions {
		// generation details are for HR only
		questions[i].Provenance = domain.Provenance{}
	}

	return &domain.InterviewView{
		CandidateName: c.Name,
		JobTitle:      job.Title,
		Session:       session,
		ExpiresAt:     link.ExpiresAt,
		Questions:     questions,
	}, nil
}

func (u *interviewUsecase) Start(ctx context.Context, token string) (*domain.InterviewSession, error) {
	_, session, err := u.access(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.SessionInProgress {
		return session, nil
	}

	now := u.now()
	if err := u.Sessions.UpdateStatus(ctx, session.ID, domain.SessionInProgress, now); err != nil {
		return nil, apperror.Internal(err)
	}
	session.Status = domain.SessionInProgress
	session.StartedAt = &now
	logger.Log.Info("Interview started", "session_id", session.ID, "candidate_id", session.CandidateID)
	return session, nil
}

func (u *interviewUsecase) SubmitAnswer(ctx context.Context, token string, in domain.AnswerInput) (*domain.Answer, error) {
	_, session, err := u.access(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionInProgress {
		return nil, apperror.BadRequest("Interview has not been started")
	}

	q, err := u.Questions.GetByID(ctx, in.QuestionID)
	if err != nil || q.SessionID != session.ID {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		return nil, apperror.NotFound("Question not found")
	}

	text := strings.TrimSpace(in.ResponseText)
	if text == "" && in.File == nil {
		return nil, apperror.BadRequest("An answer text or recording is required")
	}

	a := &domain.Answer{QuestionID: q.ID}
	if text != "" {
		a.ResponseText = &text
	}
	if in.File != nil {
		data, err := u.uploads.check(ctx, security.KindRecording, in.File, maxRecordingBytes)
		if err != nil {
			return nil, err
		}
		key, err := u.uploads.put(ctx, "answers", in.File.Filename, in.File.ContentType, data)
		if err != nil {
			return nil, err
		}
		a.ResponseFile = &key
	}

	if err := u.Answers.Create(ctx, a); err != nil {
		return nil, apperror.Internal(err)
	}
	return a, nil
}

// LogCheatingEvent stores a proctoring event. Snapshots are downscaled to
// JPEG before storage.
func (u *interviewUsecase) LogCheatingEvent(ctx context.Context, token string, in domain.CheatingEventInput) (*domain.CheatingLog, error) {
	_, session, err := u.access(ctx, token)
	if err != nil {
		return nil, err
	}

	in.EventType = strings.TrimSpace(in.EventType)
	if err := u.Validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	entry := &domain.CheatingLog{SessionID: session.ID, EventType: in.EventType, Details: in.Details}
	if in.Snapshot != nil {
		data, err := u.uploads.check(ctx, security.KindSnapshot, in.Snapshot, maxSnapshotBytes)
		if err != nil {
			return nil, err
		}
		compressed, err := imaging.CompressJPEG(data, imaging.DefaultMaxDimension, imaging.DefaultQuality)
		if err != nil {
			return nil, apperror.BadRequest("Snapshot is not a valid image")
		}
		key, err := u.uploads.put(ctx, "snapshots", "snapshot.jpg", "image/jpeg", compressed)
		if err != nil {
			return nil, err
		}
		entry.SnapshotKey = &key
	}

	if err := u.CheatingLogs.Create(ctx, entry); err != nil {
		return nil, apperror.Internal(err)
	}
	u.SecLogger.LogProctoringFlag(ctx, session.ID, entry.EventType)
	return entry, nil
}

// Complete finishes the interview and consumes the link.
func (u *interviewUsecase) Complete(ctx context.Context, token string) (*domain.InterviewSession, error) {
	link, session, err := u.access(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionInProgress {
		return nil, apperror.BadRequest("Interview has not been started")
	}

	now := u.now()
	if err := u.Sessions.UpdateStatus(ctx, session.ID, domain.SessionCompleted, now); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := u.Links.MarkUsed(ctx, link.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	session.Status = domain.SessionCompleted
	session.CompletedAt = &now
	logger.Log.Info("Interview completed", "session_id", session.ID, "candidate_id", session.CandidateID)
	return session, nil
}
