package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkowalcze/shoutbox/internal/handler"
	"github.com/mkowalcze/shoutbox/internal/repository/sqlite"
	"github.com/mkowalcze/shoutbox/internal/service"
	"github.com/mkowalcze/shoutbox/internal/token"
)

const testJWTSecret = "test-secret-for-handler-tests"

func newTestServices(t *testing.T, ttl time.Duration) (*service.SessionManager, *service.MessageService) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	codec := token.NewCodec(testJWTSecret, ttl)
	return service.NewSessionManager(db.Users(), codec, 4),
		service.NewMessageService(db.Messages())
}

func loginTestUser(t *testing.T, sessions *service.SessionManager, username string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := sessions.Register(ctx, username, "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	result, err := sessions.Login(ctx, username, "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return result.Token
}

func TestRequireAuth_ValidBearerToken(t *testing.T) {
	sessions, _ := newTestServices(t, 30*time.Minute)
	tok := loginTestUser(t, sessions, "alice")

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := handler.UserFromContext(r.Context()); user != nil {
			gotUser = user.Username
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != "alice" {
		t.Fatalf("expected user alice in context, got %q", gotUser)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	sessions, _ := newTestServices(t, 30*time.Minute)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	sessions, _ := newTestServices(t, 30*time.Minute)
	tok := loginTestUser(t, sessions, "alice")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic "+tok)
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	sessions, _ := newTestServices(t, 30*time.Minute)
	tok := loginTestUser(t, sessions, "alice")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok[:len(tok)-1]+"X")
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %d", w.Code)
	}
}

func TestRequireAuth_ExpiredTokenIs400(t *testing.T) {
	sessions, _ := newTestServices(t, -time.Minute)
	tok := loginTestUser(t, sessions, "alice")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	// Expired is a distinct failure from forged: 400, not 401.
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for expired token, got %d", w.Code)
	}
}

func TestRequireAuth_LoggedOutTokenIs400(t *testing.T) {
	sessions, _ := newTestServices(t, 30*time.Minute)
	tok := loginTestUser(t, sessions, "alice")

	ctx := context.Background()
	user, err := sessions.ValidateToken(ctx, tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if err := sessions.Logout(ctx, user); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()

	handler.RequireAuth(sessions, inner).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for logged-out session, got %d", w.Code)
	}
}

func TestThrottled_DeniesAfterBurst(t *testing.T) {
	throttle := service.NewThrottle(0.001, 2)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := handler.Throttled(throttle, inner)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 beyond burst, got %d", w.Code)
	}
}
