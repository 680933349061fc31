package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/cloudcorenow/backend/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, is_active, last_login_at, created_at, updated_at`

// GetActiveUserByEmail only ever returns active users; a deactivated account
// is indistinguishable from a missing one.
func (db *Postgres) GetActiveUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND is_active
	`
	return db.scanUser(db.Pool.QueryRow(ctx, query, email))
}

func (db *Postgres) GetActiveUserByID(ctx context.Context, userID string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND is_active
	`
	return db.scanUser(db.Pool.QueryRow(ctx, query, userID))
}

func (db *Postgres) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + userColumns + `
	`
	return db.scanUser(db.Pool.QueryRow(ctx, query,
		uuid.New().String(),
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		string(u.Role),
		u.IsActive,
	))
}

func (db *Postgres) TouchLastLogin(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	_, err := db.Pool.Exec(ctx, query, userID)
	return err
}

type row interface {
	Scan(dest ...any) error
}

func (db *Postgres) scanUser(r row) (*model.User, error) {
	var user model.User
	err := r.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
