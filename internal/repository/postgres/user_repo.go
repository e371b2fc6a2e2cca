package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-interview-backend/internal/domain"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.HRUser) error {
	query := `INSERT INTO hr_users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	return mapError(err)
}

func (r *userRepo) getBy(ctx context.Context, column string, arg any) (*domain.HRUser, error) {
	query := `SELECT id, username, email, password_hash, role, created_at FROM hr_users WHERE ` + column + ` = $1`
	var u domain.HRUser
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.HRUser, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.HRUser, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.HRUser, error) {
	return r.getBy(ctx, "LOWER(email)", strings.ToLower(email))
}
