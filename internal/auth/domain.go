package auth

import (
	"time"

	"github.com/petrocom/uts/internal/gate"
	"github.com/petrocom/uts/internal/shared"
)

// User represents a commission or company account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         shared.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the part of the account stored in the session.
func (u *User) Identity() gate.User {
	return gate.User{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
