package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/email"
)

type notifierFixture struct {
	logs   *MockEmailLogRepo
	cands  *MockCandidateRepo
	jobs   *MockJobRepo
	sess   *MockSessionRepo
	links  *MockLinkRepo
	mailer *MockMailer
	uc     domain.Notifier
}

func newNotifierFixture() *notifierFixture {
	f := &notifierFixture{
		logs:   new(MockEmailLogRepo),
		cands:  new(MockCandidateRepo),
		jobs:   new(MockJobRepo),
		sess:   new(MockSessionRepo),
		links:  new(MockLinkRepo),
		mailer: new(MockMailer),
	}
	f.uc = usecase.NewNotifierUsecase(f.logs, f.cands, f.jobs, f.sess, f.links, f.mailer, "https://hr.example.com")
	return f
}

func TestSendInvitationSuccess(t *testing.T) {
	f := newNotifierFixture()
	var statuses []domain.EmailStatus
	f.logs.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		statuses = append(statuses, args.Get(1).(*domain.EmailLog).Status)
	}).Return(nil)
	f.logs.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(m email.Message) bool {
		return m.To == "ada@example.com" &&
			m.Subject == "Interview Invitation for Engineer" &&
			strings.Contains(m.Body, "https://hr.example.com/interview/tok-1") &&
			strings.Contains(m.Body, "expire in 7 days")
	})).Return(nil)

	c := &domain.Candidate{ID: 1, Name: "Ada", Email: "ada@example.com"}
	entry, err := f.uc.SendInvitation(context.Background(), c, &domain.Job{Title: "Engineer"}, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.EmailStatus{domain.EmailPending}, statuses)
	assert.Equal(t, domain.EmailSent, entry.Status)
	assert.NotNil(t, entry.SentAt)
	assert.Nil(t, entry.LastError)
}

func TestSendInvitationFailureIsRecorded(t *testing.T) {
	f := newNotifierFixture()
	f.logs.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.logs.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp refused"))

	entry, err := f.uc.SendInvitation(context.Background(), &domain.Candidate{ID: 1, Email: "a@b.co"}, &domain.Job{}, "t")
	require.NoError(t, err)
	assert.Equal(t, domain.EmailFailed, entry.Status)
	assert.Equal(t, "smtp refused", *entry.LastError)
	assert.Nil(t, entry.SentAt)
}

func TestRetryFailed(t *testing.T) {
	f := newNotifierFixture()
	failed := &domain.EmailLog{ID: 4, CandidateID: 1, Status: domain.EmailFailed, RetryCount: 1, LastError: strPtr("x")}
	f.logs.On("GetByID", mock.Anything, int64(4)).Return(failed, nil)
	f.logs.On("GetByID", mock.Anything, int64(5)).Return(&domain.EmailLog{ID: 5, Status: domain.EmailSent}, nil)
	f.logs.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.cands.On("GetByID", mock.Anything, int64(1)).Return(&domain.Candidate{ID: 1, JobID: 2, Email: "a@b.co"}, nil)
	f.jobs.On("GetByID", mock.Anything, int64(2)).Return(&domain.Job{ID: 2, Title: "Engineer"}, nil)
	f.sess.On("GetByCandidateID", mock.Anything, int64(1)).Return(&domain.InterviewSession{ID: 5}, nil)
	f.links.On("GetBySessionID", mock.Anything, int64(5)).Return(&domain.InterviewLink{Token: "tok"}, nil)
	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)

	entry, err := f.uc.RetryFailed(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.RetryCount)
	assert.Equal(t, domain.EmailSent, entry.Status)
	assert.Nil(t, entry.LastError)

	_, err = f.uc.RetryFailed(context.Background(), 5)
	assertStatus(t, err, 409)
}
