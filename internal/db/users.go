package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUserExists is returned when the username or email is already taken.
var ErrUserExists = errors.New("username or email already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// User is a service account stored in the users table.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// CreateUser inserts a new user row and fills in ID and CreatedAt.
func CreateUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id, created_at
	`

	err := Pool.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash, u.IsAdmin).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// GetUserByUsername looks a user up for login.
func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, COALESCE(email, ''), password_hash, is_admin, created_at, last_login
		FROM users
		WHERE username = $1
	`

	var u User
	err := Pool.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetUserByID returns the account for an authenticated request.
func GetUserByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, username, COALESCE(email, ''), password_hash, is_admin, created_at, last_login
		FROM users
		WHERE id = $1::uuid
	`

	var u User
	err := Pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// TouchLastLogin records a successful login timestamp.
func TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := Pool.Exec(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}
