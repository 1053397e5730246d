package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/petrocom/uts/internal/auth"
	"github.com/petrocom/uts/internal/shared"
)

// ErrInvalidUser is returned by AddUserCommand for unusable input.
var ErrInvalidUser = errors.New("add-user: invalid input")

// AddUserOptions are the flags of the add-user command.
type AddUserOptions struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Stdout    io.Writer
}

// AddUserCommand prints an INSERT statement for a new account with a bcrypt
// password hash.
func AddUserCommand(opts AddUserOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	role := shared.ParseRole(opts.Role)
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, opts.Role)
	}
	email := strings.TrimSpace(opts.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: --email is required", ErrInvalidUser)
	}
	if len(opts.Password) < 8 {
		return fmt.Errorf("%w: --password must be at least 8 characters", ErrInvalidUser)
	}
	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return fmt.Errorf("add-user: %w", err)
	}
	_, err = fmt.Fprintf(opts.Stdout,
		"INSERT INTO users (id, email, password_hash, first_name, last_name, role, is_active) VALUES (%s, %s, %s, %s, %s, %s, TRUE);\n",
		quote(uuid.NewString()), quote(email), quote(hash), quote(opts.FirstName), quote(opts.LastName), quote(string(role)))
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
