// Package auth registers users, checks passwords and issues bearer session
// tokens. Ownership checks on projects and tasks live in the tracker
// package; this package only answers "who is calling".
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/dori/punch/internal/model"
	"github.com/dori/punch/internal/tracker"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserStore persists users and sessions. Lookups return (nil, nil) when the
// row does not exist.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	DeleteUser(ctx context.Context, id string) error
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// Registration holds the input for Register.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// ProfilePatch lists the editable profile fields. Nil fields are left
// unchanged.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Password *string
}

// Service authenticates users.
type Service struct {
	store UserStore
	clock tracker.Clock
	ttl   time.Duration
	cost  int
	log   zerolog.Logger
}

// NewService creates an auth service issuing sessions valid for ttl.
func NewService(store UserStore, clock tracker.Clock, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{store: store, clock: clock, ttl: ttl, cost: bcrypt.DefaultCost, log: log}
}

// SetHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) SetHashCost(cost int) {
	s.cost = cost
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, in Registration) (*model.User, error) {
	name := normalize(in.Name)
	if name == "" {
		return nil, tracker.Invalid("name", "is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, tracker.Invalid("password", "must be at least %d characters", MinPasswordLength)
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, &tracker.UpstreamError{Op: "lookup user", Err: err}
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, &tracker.UpstreamError{Op: "create user", Err: err}
	}

	s.log.Info().Str("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Login checks the credentials and opens a new session.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	u, err := s.store.GetUserByEmail(ctx, normalize(email))
	if err != nil {
		return nil, &tracker.UpstreamError{Op: "lookup user", Err: err}
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	if err := s.PruneSessions(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to prune expired sessions")
	}

	session := &model.Session{
		Token:     uuid.New().String(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, &tracker.UpstreamError{Op: "create session", Err: err}
	}

	s.log.Info().Str("user_id", u.ID).Msg("user logged in")
	return session, nil
}

// Authenticate resolves a bearer token to a user id.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		return "", &tracker.UpstreamError{Op: "lookup session", Err: err}
	}
	if session == nil || session.Expired(s.clock.Now()) {
		return "", ErrInvalidToken
	}
	return session.UserID, nil
}

// PruneSessions drops every expired session.
func (s *Service) PruneSessions(ctx context.Context) error {
	if err := s.store.DeleteExpiredSessions(ctx, s.clock.Now()); err != nil {
		return &tracker.UpstreamError{Op: "prune sessions", Err: err}
	}
	return nil
}

// Logout ends the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return &tracker.UpstreamError{Op: "delete session", Err: err}
	}
	return nil
}

// UserByEmail looks up a user for local tooling that bypasses the HTTP
// login flow.
func (s *Service) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.store.GetUserByEmail(ctx, normalize(email))
	if err != nil {
		return nil, &tracker.UpstreamError{Op: "lookup user", Err: err}
	}
	if u == nil {
		return nil, tracker.ErrNotFound
	}
	return u, nil
}

// Profile returns the caller's account.
func (s *Service) Profile(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, &tracker.UpstreamError{Op: "get user", Err: err}
	}
	if u == nil {
		return nil, tracker.ErrNotFound
	}
	return u, nil
}

// UpdateProfile applies patch to the caller's account.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*model.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := normalize(*patch.Name)
		if name == "" {
			return nil, tracker.Invalid("name", "must not be empty")
		}
		u.Name = name
	}
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		if email != u.Email {
			existing, err := s.store.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, &tracker.UpstreamError{Op: "lookup user", Err: err}
			}
			if existing != nil {
				return nil, ErrEmailTaken
			}
		}
		u.Email = email
	}
	if patch.Password != nil {
		if len(*patch.Password) < MinPasswordLength {
			return nil, tracker.Invalid("password", "must be at least %d characters", MinPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.cost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	u.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, &tracker.UpstreamError{Op: "update user", Err: err}
	}
	return u, nil
}

// DeleteAccount removes the caller and everything they own.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return &tracker.UpstreamError{Op: "delete user", Err: err}
	}
	s.log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeEmail(s string) (string, error) {
	email := normalize(s)
	if email == "" {
		return "", tracker.Invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", tracker.Invalid("email", "is invalid")
	}
	return email, nil
}
