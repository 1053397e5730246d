package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/petrocom/uts/internal/shared"
)

// HashPassword hashes a password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenManager
	now    func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive || !user.Role.Valid() {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a session token for user.
func (s *Service) IssueToken(user *User) (string, error) {
	return s.tokens.Issue(user)
}

// RecordLogin persists the login audit trail.
func (s *Service) RecordLogin(ctx context.Context, user *User, ip string) error {
	return s.repo.RecordLogin(ctx, user, shared.AuditLog{
		ID:       uuid.New().String(),
		Actor:    user.Email,
		Role:     user.Role,
		Action:   "auth.login",
		Entity:   "user",
		EntityID: user.ID,
		Meta:     map[string]any{"ip": ip},
		At:       s.now().UTC(),
	})
}
