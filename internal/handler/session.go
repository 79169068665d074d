package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkowalcze/shoutbox/internal/domain"
	"github.com/mkowalcze/shoutbox/internal/service"
)

// SessionHandler handles registration, login, and logout requests.
type SessionHandler struct {
	sessions *service.SessionManager
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister processes a registration request.
// POST /register
// Request:  {"username":"...","password":"..."}
// Response: 201 with a result message, 400 if the username is taken.
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	_, err := h.sessions.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			writeError(w, http.StatusBadRequest, "Username already registered.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("register user", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "Successfully registered new user.")
}

// HandleLogin processes a login request.
// POST /login
// Request:  {"username":"...","password":"..."}
// Response: 200 {"access_token":"...","token_type":"bearer"}, or a
// plain "already logged in" message when an active session exists,
// or 400 on bad credentials.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Incorrect username or password.")
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if result.AlreadyLoggedIn {
		writeMessage(w, http.StatusOK, "already logged in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": result.Token,
		"token_type":   result.TokenType,
	})
}

// HandleLogout closes the authenticated user's session.
// GET /logout
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := h.sessions.Logout(r.Context(), user); err != nil {
		slog.Error("logout user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeMessage(w, http.StatusOK, "User logout successful.")
}
