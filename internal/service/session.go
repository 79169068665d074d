package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkowalcze/shoutbox/internal/domain"
	"github.com/mkowalcze/shoutbox/internal/token"
)

// TokenTypeBearer is the token_type marker returned on login.
const TokenTypeBearer = "bearer"

// SessionManager orchestrates the account and session lifecycle:
// registration, login (token minting), token validation, and logout.
//
// A session is proven by two things together: a currently-valid signed
// token, and the user's server-side LoggedIn flag. Expiry is checked
// lazily, only when a token is presented; observing an expired token
// forces the user logged out.
type SessionManager struct {
	users      domain.UserRepository
	codec      *token.Codec
	bcryptCost int
}

// NewSessionManager creates a SessionManager. The codec and cost are
// fixed at construction; there is no hidden global state.
func NewSessionManager(users domain.UserRepository, codec *token.Codec, bcryptCost int) *SessionManager {
	return &SessionManager{
		users:      users,
		codec:      codec,
		bcryptCost: bcryptCost,
	}
}

// LoginResult is the outcome of a successful Login call.
type LoginResult struct {
	// AlreadyLoggedIn is true when the credentials were correct but the
	// user already holds an active session. No token is minted in that
	// case and the existing session is left untouched.
	AlreadyLoggedIn bool
	Token           string
	TokenType       string
}

// Register creates a new account with the password hashed and the
// logged-in flag off. Fails with domain.ErrDuplicateUsername if the
// username is taken (exact string match).
func (m *SessionManager) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := m.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and mints a bearer token with the
// username as subject. An unknown username and a wrong password fail
// the same way, with domain.ErrInvalidCredentials.
func (m *SessionManager) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := m.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if user.LoggedIn {
		return &LoginResult{AlreadyLoggedIn: true}, nil
	}

	signed, err := m.codec.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := m.users.SetLoggedIn(ctx, user.ID, true); err != nil {
		return nil, fmt.Errorf("set logged in: %w", err)
	}

	return &LoginResult{Token: signed, TokenType: TokenTypeBearer}, nil
}

// ValidateToken resolves a presented token to its user.
//
// Three failure kinds are kept apart because they carry different side
// effects and status codes downstream:
//   - forged, malformed, or subject-less tokens (and tokens whose
//     subject no longer resolves to a user) fail with ErrUnauthenticated;
//   - a well-formed token whose expiry has passed fails with
//     ErrTokenExpired, after forcing the subject's logged-in flag off;
//   - a live token for a user whose logged-in flag is off fails with
//     ErrNotLoggedIn.
func (m *SessionManager) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := m.codec.Verify(tokenString)
	switch {
	case errors.Is(err, token.ErrExpired):
		return nil, m.expireSession(ctx, claims.Subject)
	case err != nil:
		return nil, domain.ErrUnauthenticated
	}

	user, err := m.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.LoggedIn {
		return nil, domain.ErrNotLoggedIn
	}

	return user, nil
}

// expireSession handles a token that is genuine but past its expiry:
// the subject is still trustworthy, so the user's session is closed
// server-side before the failure is reported.
func (m *SessionManager) expireSession(ctx context.Context, username string) error {
	user, err := m.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthenticated
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := m.users.SetLoggedIn(ctx, user.ID, false); err != nil {
		return fmt.Errorf("force logout: %w", err)
	}

	return domain.ErrTokenExpired
}

// Logout clears the user's logged-in flag.
func (m *SessionManager) Logout(ctx context.Context, user *domain.User) error {
	if err := m.users.SetLoggedIn(ctx, user.ID, false); err != nil {
		return fmt.Errorf("set logged out: %w", err)
	}
	return nil
}
