package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petrocom/uts/internal/platform/db"
	"github.com/petrocom/uts/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	RecordLogin(ctx context.Context, user *User, entry shared.AuditLog) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const findUserByEmail = `SELECT id::text, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at
FROM users WHERE lower(email) = lower($1)`

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var (
		u    User
		role string
	)
	err := r.pool.QueryRow(ctx, findUserByEmail, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	u.Role = shared.ParseRole(role)
	return &u, nil
}

// RecordLogin stamps last_login_at and writes the login audit row in one transaction.
func (r *PGRepository) RecordLogin(ctx context.Context, user *User, entry shared.AuditLog) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1::uuid`, user.ID); err != nil {
			return fmt.Errorf("auth: touch login: %w", err)
		}
		return shared.NewAuditLogger(tx).Record(ctx, entry)
	})
}

var _ Repository = (*PGRepository)(nil)

// MemoryRepository keeps accounts in memory. It backs tests and the demo
// login used when no database is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[string]*User
	logins []shared.AuditLog
}

// NewMemoryRepository indexes users by lower-cased email.
func NewMemoryRepository(users ...*User) *MemoryRepository {
	m := &MemoryRepository{users: make(map[string]*User, len(users))}
	for _, u := range users {
		m.users[strings.ToLower(u.Email)] = u
	}
	return m
}

// FindByEmail implements Repository.
func (m *MemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// RecordLogin implements Repository.
func (m *MemoryRepository) RecordLogin(_ context.Context, _ *User, entry shared.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins = append(m.logins, entry)
	return nil
}

// Logins returns the recorded login audit entries.
func (m *MemoryRepository) Logins() []shared.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]shared.AuditLog(nil), m.logins...)
}

var _ Repository = (*MemoryRepository)(nil)

// DemoUsers builds one active account per role, all sharing password.
// Emails follow <role-slug>@demo.uts.local.
func DemoUsers(password string) ([]*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	users := make([]*User, 0, len(shared.Roles()))
	for i, role := range shared.Roles() {
		slug := strings.ReplaceAll(strings.ToLower(string(role)), "_", "-")
		users = append(users, &User{
			ID:           fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1),
			Email:        slug + "@demo.uts.local",
			PasswordHash: hash,
			FirstName:    "Demo",
			LastName:     strings.ReplaceAll(slug, "-", " "),
			Role:         role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return users, nil
}
