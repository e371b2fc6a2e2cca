package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
	"go-interview-backend/pkg/auth"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/security"
	"go-interview-backend/pkg/validation"
)

// LoginGuard tracks failed logins; *security.LoginTracker implements it.
type LoginGuard interface {
	IsBlocked(ctx context.Context, login, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, login, ip, userAgent, requestID string) (bool, int, error)
	ClearAttempts(ctx context.Context, login, ip string) error
}

type newUserInput struct {
	Username string `validate:"required,min=3,max=150"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
	Role     string `validate:"oneof=hr admin"`
}

type authUsecase struct {
	userRepo  domain.UserRepository
	tokens    *auth.TokenManager
	guard     LoginGuard
	secLogger *security.SecurityLogger
	validate  *validator.Validate
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens *auth.TokenManager, guard LoginGuard, secLogger *security.SecurityLogger, validate *validator.Validate) domain.AuthUsecase {
	if secLogger == nil {
		secLogger = security.DefaultLogger()
	}
	return &authUsecase{
		userRepo:  userRepo,
		tokens:    tokens,
		guard:     guard,
		secLogger: secLogger,
		validate:  validate,
	}
}

func clientMeta(ctx context.Context) (ip, userAgent, reqID string) {
	ip, _ = ctx.Value(domain.KeyClientIP).(string)
	userAgent, _ = ctx.Value(domain.KeyUserAgent).(string)
	return ip, userAgent, requestID(ctx)
}

// Login accepts a username or an email address.
func (u *authUsecase) Login(ctx context.Context, usernameOrEmail, password string) (*domain.LoginResult, error) {
	login := strings.TrimSpace(usernameOrEmail)
	if login == "" || password == "" {
		return nil, apperror.BadRequest("Username and password are required")
	}
	ip, ua, reqID := clientMeta(ctx)

	blocked, err := u.guard.IsBlocked(ctx, login, ip)
	if err != nil {
		logger.Log.Warn("Login block check failed", "error", err)
	}
	if blocked {
		u.secLogger.LogLoginBlocked(ctx, login, ip, ua, reqID)
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}

	user, err := u.findUser(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		nowBlocked, _, err := u.guard.RecordFailedAttempt(ctx, login, ip, ua, reqID)
		if err != nil {
			logger.Log.Debug("Failed login not tracked", "error", err)
		}
		if nowBlocked {
			return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
		}
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := u.guard.ClearAttempts(ctx, login, ip); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}

	token, expiresAt, err := u.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	u.secLogger.LogLoginSuccess(ctx, user.Username, ip, reqID)
	return &domain.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// findUser tries the username first, then the email. A missing user is
// (nil, nil).
func (u *authUsecase) findUser(ctx context.Context, login string) (*domain.HRUser, error) {
	user, err := u.userRepo.GetByUsername(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if !strings.Contains(login, "@") {
		return nil, nil
	}
	user, err = u.userRepo.GetByEmail(ctx, login)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return nil, apperror.Internal(err)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.HRUser, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

func (u *authUsecase) CreateUser(ctx context.Context, username, email, password, role string) (*domain.HRUser, error) {
	if role == "" {
		role = domain.RoleHR
	}
	in := newUserInput{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
		Role:     role,
	}
	if err := u.validate.Struct(in); err != nil {
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user := &domain.HRUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("A user with this username or email already exists")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
