package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/auth"
)

func newAuthFixture(t *testing.T) (*MockUserRepo, *MockLoginGuard, *auth.TokenManager, domain.AuthUsecase) {
	t.Helper()
	users := new(MockUserRepo)
	guard := new(MockLoginGuard)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return users, guard, tokens, usecase.NewAuthUsecase(users, tokens, guard, nil, newValidator())
}

func hashedUser(t *testing.T, password string) *domain.HRUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.HRUser{ID: 7, Username: "hr", Email: "hr@example.com", PasswordHash: string(hash), Role: domain.RoleHR}
}

func TestLoginSuccess(t *testing.T) {
	users, guard, tokens, uc := newAuthFixture(t)
	users.On("GetByUsername", mock.Anything, "hr").Return(hashedUser(t, "correct-horse"), nil)
	guard.On("IsBlocked", mock.Anything, "hr", mock.Anything).Return(false, nil)
	guard.On("ClearAttempts", mock.Anything, "hr", mock.Anything).Return(nil)

	res, err := uc.Login(context.Background(), " hr ", "correct-horse")
	require.NoError(t, err)
	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	id, _ := claims.UserID()
	assert.Equal(t, int64(7), id)
	assert.Equal(t, domain.RoleHR, claims.Role)
	guard.AssertCalled(t, "ClearAttempts", mock.Anything, "hr", mock.Anything)
}

func TestLoginByEmail(t *testing.T) {
	users, guard, _, uc := newAuthFixture(t)
	users.On("GetByUsername", mock.Anything, "hr@example.com").Return(nil, domain.ErrNotFound)
	users.On("GetByEmail", mock.Anything, "hr@example.com").Return(hashedUser(t, "pw-123456"), nil)
	guard.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	guard.On("ClearAttempts", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	res, err := uc.Login(context.Background(), "hr@example.com", "pw-123456")
	require.NoError(t, err)
	assert.Equal(t, "hr", res.User.Username)
}

func TestLoginFailures(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		users, guard, _, uc := newAuthFixture(t)
		users.On("GetByUsername", mock.Anything, "hr").Return(hashedUser(t, "right"), nil)
		guard.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		guard.On("RecordFailedAttempt", mock.Anything, "hr", mock.Anything, mock.Anything, mock.Anything).Return(false, 1, nil)

		_, err := uc.Login(context.Background(), "hr", "wrong")
		assertStatus(t, err, 401)
		guard.AssertNotCalled(t, "ClearAttempts", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user counts as failure", func(t *testing.T) {
		users, guard, _, uc := newAuthFixture(t)
		users.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
		guard.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		guard.On("RecordFailedAttempt", mock.Anything, "ghost", mock.Anything, mock.Anything, mock.Anything).Return(true, 5, nil)

		_, err := uc.Login(context.Background(), "ghost", "pw")
		assertStatus(t, err, 429)
	})

	t.Run("blocked", func(t *testing.T) {
		users, guard, _, uc := newAuthFixture(t)
		guard.On("IsBlocked", mock.Anything, "hr", mock.Anything).Return(true, nil)

		_, err := uc.Login(context.Background(), "hr", "pw")
		assertStatus(t, err, 429)
		users.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, _, _, uc := newAuthFixture(t)
		_, err := uc.Login(context.Background(), "  ", "")
		assertStatus(t, err, 400)
	})
}

func TestCreateUser(t *testing.T) {
	users, _, _, uc := newAuthFixture(t)
	users.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	u, err := uc.CreateUser(context.Background(), "recruiter", "rec@example.com", "long-enough", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleHR, u.Role)
	assert.NotEqual(t, "long-enough", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("long-enough")))

	users.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicate).Once()
	_, err = uc.CreateUser(context.Background(), "recruiter", "rec@example.com", "long-enough", "")
	assertStatus(t, err, 409)

	_, err = uc.CreateUser(context.Background(), "r", "not-an-email", "short", "owner")
	assertStatus(t, err, 400)
}
