package domain

import (
	"context"
	"time"
)

const (
	RoleHR    = "hr"
	RoleAdmin = "admin"
)

// HRUser is a staff account. Accounts are provisioned by an administrator.
type HRUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *HRUser) error
	GetByID(ctx context.Context, id int64) (*HRUser, error)
	GetByUsername(ctx context.Context, username string) (*HRUser, error)
	GetByEmail(ctx context.Context, email string) (*HRUser, error)
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *HRUser   `json:"user"`
}

type AuthUsecase interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error)
	GetCurrentUser(ctx context.Context, id int64) (*HRUser, error)
	CreateUser(ctx context.Context, username, email, password, role string) (*HRUser, error)
}
