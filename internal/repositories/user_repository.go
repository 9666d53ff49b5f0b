package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intconfig "backoffice/internal/config"
)

// User is the subset of users the API reads.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         string
	PasswordHash string
	CreatedAt    sql.NullTime
}

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) ByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db().QueryRowContext(ctx, `
		SELECT CAST(id AS CHAR), COALESCE(email,''), COALESCE(first_name,''), COALESCE(last_name,''),
			COALESCE(role,''), COALESCE(password_hash,''), created_at
		FROM users WHERE email = ? LIMIT 1`, strings.TrimSpace(email)).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// FormatCreated renders created_at for JSON, or nil when unknown.
func (u User) FormatCreated() *string {
	if !u.CreatedAt.Valid {
		return nil
	}
	s := u.CreatedAt.Time.UTC().Format(time.RFC3339)
	return &s
}

// Create inserts a user; id is generated by the caller.
func (r UserRepository) Create(ctx context.Context, u User) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, role, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())`,
		u.ID, strings.TrimSpace(u.Email), u.FirstName, u.LastName, u.Role, u.PasswordHash)
	return err
}
