package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mkowalcze/shoutbox/internal/domain"
	"github.com/mkowalcze/shoutbox/internal/service"
)

// MessageHandler handles message posting, listing, voting, and deletion.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// HandleList returns all messages.
// GET /messages
func (h *MessageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.List(r.Context())
	if err != nil {
		slog.Error("list messages", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toMessageDTOs(messages))
}

// HandlePost creates a message authored by the caller.
// POST /messages
// Request: {"message":"..."}
func (h *MessageHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user := UserFromContext(r.Context())
	if _, err := h.messages.Post(r.Context(), user, req.Message); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("post message", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeMessage(w, http.StatusCreated, "Message posted successfully.")
}

// HandleVote registers a single up or down vote on a message.
// POST /messages/{id}/vote
// Request: {"vote":"up"} or {"vote":"down"}
func (h *MessageHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}

	var req struct {
		Vote domain.VoteDirection `json:"vote"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.messages.Vote(r.Context(), id, req.Vote); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusBadRequest, "Cannot find message ID.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("vote on message", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "Vote registered successfully.")
}

// HandleDelete removes a message by id.
// DELETE /messages/{id}
func (h *MessageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := messageID(w, r)
	if !ok {
		return
	}

	if err := h.messages.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Cannot find message ID.")
			return
		}
		slog.Error("delete message", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeMessage(w, http.StatusOK, "Message deleted successfully.")
}

// HandleListOwn returns the caller's own messages.
// GET /user/messages
func (h *MessageHandler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	messages, err := h.messages.ListByUser(r.Context(), user)
	if err != nil {
		slog.Error("list user messages", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toMessageDTOs(messages))
}

// messageID parses the {id} path segment, writing a 400 on failure.
func messageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid message ID.")
		return 0, false
	}
	return id, true
}
