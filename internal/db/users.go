package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/dori/punch/internal/model"
	"github.com/google/uuid"
)

// CreateUser inserts u, assigning an ID when it has none
func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	return err
}

// GetUser returns a user by ID, or nil if it does not exist
func (db *DB) GetUser(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByEmail returns a user by email, or nil if it does not exist
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, where string, arg string) (*model.User, error) {
	var u model.User
	err := db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users `+where, arg,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser writes the profile fields and password hash of u
func (db *DB) UpdateUser(ctx context.Context, u *model.User) error {
	_, err := db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, password_hash = ?, updated_at = ? WHERE id = ?
	`, u.Name, u.Email, u.PasswordHash, u.UpdatedAt.UTC(), u.ID)
	return err
}

// DeleteUser removes a user. Projects, tasks and sessions cascade.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}

// CreateSession stores a new bearer session
func (db *DB) CreateSession(ctx context.Context, s *model.Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)
	`, s.Token, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC())
	return err
}

// GetSession returns the session for token, or nil if it does not exist
func (db *DB) GetSession(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	err := db.QueryRowContext(ctx, `
		SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?
	`, token).Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes a single session
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// DeleteExpiredSessions removes every session that expired before now
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	return err
}
