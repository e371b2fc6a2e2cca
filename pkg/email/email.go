// Package email delivers plain-text messages to candidates.
package email

import (
	"context"
	"fmt"

	"go-interview-backend/config"
	"go-interview-backend/pkg/logger"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers one message, single attempt.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Invitation builds the interview invitation for a candidate.
func Invitation(candidateName, jobTitle, link string) Message {
	return Message{
		Subject: fmt.Sprintf("Interview Invitation for %s", jobTitle),
		Body: fmt.Sprintf("Hello %s,\n\n"+
			"You have been invited for an initial screening interview.\n\n"+
			"Please use the following link to start your interview: %s\n\n"+
			"This link is for single-use and will expire in 7 days.", candidateName, link),
	}
}

// InterviewURL is the candidate-facing link for token.
func InterviewURL(frontendBase, token string) string {
	return fmt.Sprintf("%s/interview/%s", frontendBase, token)
}

// NewFromConfig returns an SMTP mailer when EMAIL_DELIVERY=smtp and SMTP is
// configured, otherwise a mailer that only logs.
func NewFromConfig(cfg *config.Config) Mailer {
	if cfg.EmailDelivery == "smtp" {
		m := NewSMTPMailer(cfg)
		if m.IsConfigured() {
			return m
		}
		logger.Log.Warn("EMAIL_DELIVERY=smtp but SMTP credentials are missing, logging emails instead")
	}
	return LogMailer{}
}

// LogMailer writes messages to the application log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	logger.Log.Info("Email (log delivery)", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
