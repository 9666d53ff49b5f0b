package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for an unknown email or a wrong password.
var ErrBadCredentials = errors.New("invalid email or password")

type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type LoginResult struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type AuthService struct {
	Users     repositories.UserRepository
	Tokens    auth.Issuer
	RequestID string
}

func (s AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, domain.ValidationError{Msg: "email and password are required"}
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			utils.LogEvent(s.RequestID, "auth", "login_failed", "reason=unknown_email")
			return LoginResult{}, ErrBadCredentials
		}
		return LoginResult{}, domain.InternalError{Msg: "failed to load user", Err: err}
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		utils.LogEvent(s.RequestID, "auth", "login_failed", "user="+u.ID)
		return LoginResult{}, ErrBadCredentials
	}
	token, err := s.Tokens.IssueToken(u.ID, u.Email, u.Role)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "failed to issue token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user="+u.ID)
	return LoginResult{
		Token: token,
		User: AuthUser{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
		},
	}, nil
}

// HashPassword is used by the admin CLI to provision users.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
