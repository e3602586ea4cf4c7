// Package auth provides authentication: credential verification, token
// issuance and the current-user contract the rest of the application
// depends on.
package auth

import (
	"context"
	"time"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
)

// User is an application account. Role is either "admin" or "user";
// admin gates catalog and exchange-rate writes but not sale registration
// or cash-advance transactions.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"fullName"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks invariants before persistence.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}

	if u.Role != appctx.RoleAdmin && u.Role != appctx.RoleUser {
		return apperror.NewValidation("role must be admin or user").
			WithDetail("field", "role")
	}

	return nil
}

// Repository defines persistence operations for users.
type Repository interface {
	// Create inserts a new user
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)
}
