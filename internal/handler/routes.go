package handler

import (
	"net/http"

	"github.com/mkowalcze/shoutbox/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. A nil
// throttle disables rate limiting on the credential endpoints.
func RegisterRoutes(mux *http.ServeMux, sessions *service.SessionManager, messages *service.MessageService, throttle *service.Throttle) {
	sessionHandler := NewSessionHandler(sessions)
	messageHandler := NewMessageHandler(messages)

	guard := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(sessions, h)
	}
	limit := func(h http.Handler) http.Handler {
		if throttle == nil {
			return h
		}
		return Throttled(throttle, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("POST /register", limit(http.HandlerFunc(sessionHandler.HandleRegister)))
	mux.Handle("POST /login", limit(http.HandlerFunc(sessionHandler.HandleLogin)))
	mux.Handle("GET /logout", guard(sessionHandler.HandleLogout))

	mux.Handle("GET /messages", guard(messageHandler.HandleList))
	mux.Handle("POST /messages", guard(messageHandler.HandlePost))
	mux.Handle("POST /messages/{id}/vote", guard(messageHandler.HandleVote))
	mux.Handle("DELETE /messages/{id}", guard(messageHandler.HandleDelete))
	mux.Handle("GET /user/messages", guard(messageHandler.HandleListOwn))
}
