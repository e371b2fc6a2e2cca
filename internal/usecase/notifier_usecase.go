package usecase

import (
	"context"
	"time"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/email"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/security"
)

type notifierUsecase struct {
	emailLogs   domain.EmailLogRepository
	candidates  domain.CandidateRepository
	jobs        domain.JobRepository
	sessions    domain.SessionRepository
	links       domain.LinkRepository
	mailer      email.Mailer
	frontendURL string
	now         func() time.Time
}

func NewNotifierUsecase(
	emailLogs domain.EmailLogRepository,
	candidates domain.CandidateRepository,
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	links domain.LinkRepository,
	mailer email.Mailer,
	frontendURL string,
) domain.Notifier {
	return &notifierUsecase{
		emailLogs:   emailLogs,
		candidates:  candidates,
		jobs:        jobs,
		sessions:    sessions,
		links:       links,
		mailer:      mailer,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// SendInvitation records a PENDING log, makes one delivery attempt and
// stores the outcome. A delivery failure is recorded, not returned.
func (u *notifierUsecase) SendInvitation(ctx context.Context, c *domain.Candidate, job *domain.Job, token string) (*domain.EmailLog, error) {
	entry := &domain.EmailLog{CandidateID: c.ID, Status: domain.EmailPending}
	if err := u.emailLogs.Create(ctx, entry); err != nil {
		return nil, err
	}
	u.deliver(ctx, entry, c, job, token)
	if err := u.emailLogs.Update(ctx, entry); err != nil {
		return entry, err
	}
	return entry, nil
}

// RetryFailed re-attempts a FAILED invitation once and bumps retry_count.
func (u *notifierUsecase) RetryFailed(ctx context.Context, emailLogID int64) (*domain.EmailLog, error) {
	entry, err := u.emailLogs.GetByID(ctx, emailLogID)
	if err != nil {
		return nil, notFoundOr(err, "Email log not found")
	}
	if entry.Status != domain.EmailFailed {
		return nil, apperror.Conflict("Only failed emails can be retried")
	}

	c, err := u.candidates.GetByID(ctx, entry.CandidateID)
	if err != nil {
		return nil, notFoundOr(err, "Candidate not found")
	}
	job, err := u.jobs.GetByID(ctx, c.JobID)
	if err != nil {
		return nil, notFoundOr(err, "Job not found")
	}
	session, err := u.sessions.GetByCandidateID(ctx, c.ID)
	if err != nil {
		return nil, notFoundOr(err, "Interview session not found")
	}
	link, err := u.links.GetBySessionID(ctx, session.ID)
	if err != nil {
		return nil, notFoundOr(err, "Interview link not found")
	}

	entry.RetryCount++
	entry.Status = domain.EmailPending
	u.deliver(ctx, entry, c, job, link.Token)
	if err := u.emailLogs.Update(ctx, entry); err != nil {
		return nil, apperror.Internal(err)
	}
	return entry, nil
}

func (u *notifierUsecase) deliver(ctx context.Context, entry *domain.EmailLog, c *domain.Candidate, job *domain.Job, token string) {
	msg := email.Invitation(c.Name, job.Title, email.InterviewURL(u.frontendURL, token))
	msg.To = c.Email

	if err := u.mailer.Send(ctx, msg); err != nil {
		reason := err.Error()
		entry.Status = domain.EmailFailed
		entry.LastError = &reason
		logger.Log.Error("Invitation email failed",
			"candidate_id", c.ID,
			"email", security.MaskEmail(c.Email),
			"retry_count", entry.RetryCount,
			"error", err,
		)
		return
	}

	now := u.now()
	entry.Status = domain.EmailSent
	entry.SentAt = &now
	entry.LastError = nil
	logger.Log.Info("Invitation email sent", "candidate_id", c.ID, "email", security.MaskEmail(c.Email))
}
