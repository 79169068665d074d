package domain

import (
	"context"
	"time"
)

// User represents a registered account on the board.
//
// LoggedIn is a server-side gate that must be true for a token to be
// accepted, independent of the token's own signature and expiry. It is
// flipped by login, logout, and by the session manager when it observes
// an expired token.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	LoggedIn     bool
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	SetLoggedIn(ctx context.Context, id int64, loggedIn bool) error
}
