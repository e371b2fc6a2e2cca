package usecase_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/security/antivirus"
	"go-interview-backend/pkg/storage"
)

type interviewFixture struct {
	links     *MockLinkRepo
	sessions  *MockSessionRepo
	questions *MockQuestionRepo
	answers   *MockAnswerRepo
	cheating  *MockCheatingLogRepo
	store     storage.FileStore
	uc        domain.InterviewUsecase
}

func newInterviewFixture(t *testing.T, link *domain.InterviewLink, session *domain.InterviewSession) *interviewFixture {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	f := &interviewFixture{
		links:     new(MockLinkRepo),
		sessions:  new(MockSessionRepo),
		questions: new(MockQuestionRepo),
		answers:   new(MockAnswerRepo),
		cheating:  new(MockCheatingLogRepo),
		store:     store,
	}
	candidates := new(MockCandidateRepo)
	jobs := new(MockJobRepo)
	candidates.On("GetByID", mock.Anything, session.CandidateID).
		Return(&domain.Candidate{ID: session.CandidateID, JobID: 3, Name: "Ada"}, nil)
	jobs.On("GetByID", mock.Anything, int64(3)).Return(&domain.Job{ID: 3, Title: "Engineer"}, nil)

	f.links.On("GetByToken", mock.Anything, link.Token).Return(link, nil)
	f.links.On("GetByToken", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	f.sessions.On("GetByID", mock.Anything, session.ID).Return(session, nil)

	f.uc = usecase.NewInterviewUsecase(usecase.InterviewDeps{
		Links:        f.links,
		Sessions:     f.sessions,
		Candidates:   candidates,
		Jobs:         jobs,
		Questions:    f.questions,
		Answers:      f.answers,
		CheatingLogs: f.cheating,
		Store:        store,
		Scanner:      antivirus.NoOpScanner{},
		Validate:     newValidator(),
	})
	return f
}

func activeLink() *domain.InterviewLink {
	return &domain.InterviewLink{ID: 9, SessionID: 5, Token: "tok", ExpiresAt: time.Now().Add(24 * time.Hour)}
}

func assertStatus(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestInterviewOpenHidesProvenance(t *testing.T) {
	session := &domain.InterviewSession{ID: 5, CandidateID: 1, Status: domain.SessionNotAttempted}
	f := newInterviewFixture(t, activeLink(), session)
	f.questions.On("ListBySession", mock.Anything, int64(5)).Return([]domain.Question{
		{ID: 1, Text: "Q", Provenance: domain.Provenance{Source: domain.SourceAI, Model: "m"}},
	}, nil)

	view, err := f.uc.Open(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.CandidateName)
	assert.Equal(t, "Engineer", view.JobTitle)
	require.Len(t, view.Questions, 1)
	assert.Empty(t, view.Questions[0].Provenance.Model)
}

func TestInterviewUnknownToken(t *testing.T) {
	session := &domain.InterviewSession{ID: 5, CandidateID: 1, Status: domain.SessionNotAttempted}
	f := newInterviewFixture(t, activeLink(), session)

	_, err := f.uc.Open(context.Background(), "nope")
	assertStatus(t, err, 404)
}

func TestInterviewExpiredLinkMarksSessionExpired(t *testing.T) {
	link := activeLink()
	link.ExpiresAt = time.Now().Add(-time.Minute)
	session := &domain.InterviewSession{ID: 5, CandidateID: 1, Status: domain.SessionInProgress}
	f := newInterviewFixture(t, link, session)
	f.sessions.On("UpdateStatus", mock.Anything, int64(5), domain.SessionExpired, mock.Anything).Return(nil)

	_, err := f.uc.Start(context.Background(), "tok")
	assertStatus(t, err, 410)
	f.sessions.AssertCalled(t, "UpdateStatus", mock.Anything, int64(5), domain.SessionExpired, mock.Anything)
}

func TestInterviewCompletedSessionIsGoneWithoutExpiring(t *testing.T) {
	link := activeLink()
	link.IsUsed = true
	session := &domain.InterviewSession{ID: 5, CandidateID: 1, Status: domain.SessionCompleted}
	f := newInterviewFixture(t, link, session)

	_, err := f.uc.Open(context.Background(), "tok")
	assertStatus(t, err, 410)
	f.sessions.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInterviewLifecycle(t *testing.T) {
	session := &domain.InterviewSession{ID: 5, CandidateID: 1, Status: domain.SessionNotAttempted}
	f := newInterviewFixture(t, activeLink(), session)
	f.sessions.On("UpdateStatus", mock.Anything, int64(5), mock.Anything, mock.Anything).Return(nil)
	f.questions.On("GetByID", mock.Anything, int64(11)).Return(&domain.Question{ID: 11, SessionID: 5}, nil)
	f.questions.On("GetByID", mock.Anything, int64(12)).Return(&domain.Question{ID: 12, SessionID: 99}, nil)
	f.answers.On("Create", mock.Anything, mock.AnythingOfType("*domain.Answer")).Return(nil)
	f.links.On("MarkUsed", mock.Anything, int64(9)).Return(nil)
	ctx := context.Background()

	_, err := f.uc.SubmitAnswer(ctx, "tok", domain.AnswerInput{QuestionID: 11, ResponseText: "early"})
	assertStatus(t, err, 400)

	started, err := f.uc.Start(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, started.Status)
	assert.NotNil(t, started.StartedAt)

	a, err := f.uc.SubmitAnswer(ctx, "tok", domain.AnswerInput{QuestionID: 11, ResponseText: " my answer "})
	require.NoError(t, err)
	assert.Equal(t, "my answer", *a.ResponseText)

	_, err = f.uc.SubmitAnswer(ctx, "tok", domain.AnswerInput{QuestionID: 12, ResponseText: "x"})
	assertStatus(t, err, 404)

	_, err = f.uc.SubmitAnswer(ctx, "tok", domain.AnswerInput{QuestionID: 11})
	assertStatus(t, err, 400)

	done, err := f.uc.Complete(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, done.Status)
	f.links.AssertCalled(t, "MarkUsed", mock.Anything, int64(9))
}

func TestLogCheatingEventStoresCompressedSnapshot(t *testing.T) {
	session := &domain.InterviewSession{ID: 5, CandidateID: 1, Status: domain.SessionInProgress}
	f := newInterviewFixture(t, activeLink(), session)
	f.cheating.On("Create", mock.Anything, mock.AnythingOfType("*domain.CheatingLog")).Return(nil)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1600, 800))))
	size := int64(buf.Len())

	entry, err := f.uc.LogCheatingEvent(context.Background(), "tok", domain.CheatingEventInput{
		EventType: "tab_switch",
		Details:   "left the page",
		Snapshot:  &domain.UploadedFile{Filename: "frame.png", Size: size, Content: &buf},
	})
	require.NoError(t, err)
	require.NotNil(t, entry.SnapshotKey)
	assert.Contains(t, *entry.SnapshotKey, "snapshots/")

	rc, err := f.store.Open(context.Background(), *entry.SnapshotKey)
	require.NoError(t, err)
	defer rc.Close()
	cfg, _, err := image.DecodeConfig(rc)
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 600, cfg.Height)

	_, err = f.uc.LogCheatingEvent(context.Background(), "tok", domain.CheatingEventInput{})
	assertStatus(t, err, 400)
}
