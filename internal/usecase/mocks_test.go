package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/email"
)

type MockJobRepo struct{ mock.Mock }

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}
func (m *MockJobRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.JobSummary, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.JobSummary), args.Get(1).(int64), args.Error(2)
}
func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}
func (m *MockJobRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockCandidateRepo struct{ mock.Mock }

func (m *MockCandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCandidateRepo) GetByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}
func (m *MockCandidateRepo) ExistsByJobAndEmail(ctx context.Context, jobID int64, email string) (bool, error) {
	args := m.Called(ctx, jobID, email)
	if fn, ok := args.Get(0).(func(context.Context, int64, string) bool); ok {
		return fn(ctx, jobID, email), args.Error(1)
	}
	return args.Bool(0), args.Error(1)
}
func (m *MockCandidateRepo) ListStatusByJob(ctx context.Context, jobID int64) ([]domain.CandidateStatusRow, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]domain.CandidateStatusRow), args.Error(1)
}

type MockResumeRepo struct{ mock.Mock }

func (m *MockResumeRepo) Upsert(ctx context.Context, r *domain.Resume) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockResumeRepo) GetByCandidateID(ctx context.Context, candidateID int64) (*domain.Resume, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

type MockSessionRepo struct{ mock.Mock }

func (m *MockSessionRepo) GetOrCreate(ctx context.Context, candidateID int64, cfg domain.SessionConfig) (*domain.InterviewSession, bool, error) {
	args := m.Called(ctx, candidateID, cfg)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.InterviewSession), args.Bool(1), args.Error(2)
}
func (m *MockSessionRepo) GetByID(ctx context.Context, id int64) (*domain.InterviewSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewSession), args.Error(1)
}
func (m *MockSessionRepo) GetByCandidateID(ctx context.Context, candidateID int64) (*domain.InterviewSession, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewSession), args.Error(1)
}
func (m *MockSessionRepo) UpdateStatus(ctx context.Context, id int64, status domain.SessionStatus, at time.Time) error {
	return m.Called(ctx, id, status, at).Error(0)
}

type MockLinkRepo struct{ mock.Mock }

func (m *MockLinkRepo) GetOrCreate(ctx context.Context, sessionID int64, token string, expiresAt time.Time) (*domain.InterviewLink, bool, error) {
	args := m.Called(ctx, sessionID, token, expiresAt)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.InterviewLink), args.Bool(1), args.Error(2)
}
func (m *MockLinkRepo) GetByToken(ctx context.Context, token string) (*domain.InterviewLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewLink), args.Error(1)
}
func (m *MockLinkRepo) GetBySessionID(ctx context.Context, sessionID int64) (*domain.InterviewLink, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewLink), args.Error(1)
}
func (m *MockLinkRepo) MarkUsed(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockQuestionRepo struct{ mock.Mock }

func (m *MockQuestionRepo) ExistsByType(ctx context.Context, sessionID int64, qType domain.QuestionType) (bool, error) {
	args := m.Called(ctx, sessionID, qType)
	return args.Bool(0), args.Error(1)
}
func (m *MockQuestionRepo) CreateBatch(ctx context.Context, questions []domain.Question) error {
	return m.Called(ctx, questions).Error(0)
}
func (m *MockQuestionRepo) ListBySession(ctx context.Context, sessionID int64) ([]domain.Question, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.Question), args.Error(1)
}
func (m *MockQuestionRepo) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

type MockAnswerRepo struct{ mock.Mock }

func (m *MockAnswerRepo) Create(ctx context.Context, a *domain.Answer) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockAnswerRepo) ListBySession(ctx context.Context, sessionID int64) ([]domain.Answer, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.Answer), args.Error(1)
}

type MockEvaluationRepo struct{ mock.Mock }

func (m *MockEvaluationRepo) GetBySessionID(ctx context.Context, sessionID int64) (*domain.Evaluation, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Evaluation), args.Error(1)
}
func (m *MockEvaluationRepo) ListRankingByJob(ctx context.Context, jobID int64) ([]domain.RankingEntry, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]domain.RankingEntry), args.Error(1)
}

type MockCheatingLogRepo struct{ mock.Mock }

func (m *MockCheatingLogRepo) Create(ctx context.Context, l *domain.CheatingLog) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockCheatingLogRepo) ListBySession(ctx context.Context, sessionID int64) ([]domain.CheatingLog, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.CheatingLog), args.Error(1)
}

type MockEmailLogRepo struct{ mock.Mock }

func (m *MockEmailLogRepo) Create(ctx context.Context, l *domain.EmailLog) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockEmailLogRepo) GetByID(ctx context.Context, id int64) (*domain.EmailLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailLog), args.Error(1)
}
func (m *MockEmailLogRepo) Update(ctx context.Context, l *domain.EmailLog) error {
	return m.Called(ctx, l).Error(0)
}
func (m *MockEmailLogRepo) ListByCandidate(ctx context.Context, candidateID int64) ([]domain.EmailLog, error) {
	args := m.Called(ctx, candidateID)
	return args.Get(0).([]domain.EmailLog), args.Error(1)
}

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.HRUser) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.HRUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HRUser), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.HRUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HRUser), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.HRUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HRUser), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) SendInvitation(ctx context.Context, c *domain.Candidate, job *domain.Job, token string) (*domain.EmailLog, error) {
	args := m.Called(ctx, c, job, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailLog), args.Error(1)
}
func (m *MockNotifier) RetryFailed(ctx context.Context, emailLogID int64) (*domain.EmailLog, error) {
	args := m.Called(ctx, emailLogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailLog), args.Error(1)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Dispatch(ctx context.Context, candidateID int64) error {
	return m.Called(ctx, candidateID).Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockLoginGuard struct{ mock.Mock }

func (m *MockLoginGuard) IsBlocked(ctx context.Context, login, ip string) (bool, error) {
	args := m.Called(ctx, login, ip)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoginGuard) RecordFailedAttempt(ctx context.Context, login, ip, userAgent, requestID string) (bool, int, error) {
	args := m.Called(ctx, login, ip, userAgent, requestID)
	return args.Bool(0), args.Int(1), args.Error(2)
}
func (m *MockLoginGuard) ClearAttempts(ctx context.Context, login, ip string) error {
	return m.Called(ctx, login, ip).Error(0)
}

type stubResolver string

func (s stubResolver) Resolve(context.Context, *domain.Candidate) string { return string(s) }

func strPtr(s string) *string { return &s }
