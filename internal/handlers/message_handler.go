package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/findworker/backend/internal/middleware"
	"github.com/findworker/backend/internal/models"
)

// MessageRepoForHandler is the message repository subset used by the handler.
type MessageRepoForHandler interface {
	Create(ctx context.Context, m *models.Message) error
	Conversation(ctx context.Context, a, b uuid.UUID) ([]*models.Message, error)
	ConversationUsers(ctx context.Context, userID uuid.UUID) ([]models.ConversationUser, error)
}

// UserSearcher finds chat partners by name.
type UserSearcher interface {
	SearchWorkersByName(ctx context.Context, name string) ([]*models.User, error)
}

// MessageHandler serves /api/messages endpoints.
type MessageHandler struct {
	Messages MessageRepoForHandler
	Users    UserSearcher
	Logger   *slog.Logger
}

type sendMessageRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// Send handles POST /api/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	to, err := uuid.Parse(req.To)
	if err != nil {
		http.Error(w, `{"error":"invalid recipient"}`, http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}
	if to == user.ID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cannot message yourself"})
		return
	}

	m := &models.Message{ID: uuid.New(), SenderFromID: user.ID, SenderToID: to, Content: req.Content}
	if err := h.Messages.Create(r.Context(), m); err != nil {
		h.Logger.Error("send message", "error", err)
		http.Error(w, `{"error":"failed to send message"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// Conversation handles GET /api/messages/conversation/{userId} — the full
// two-way thread between the caller and the other user.
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	other, ok := pathUUID(r, "/api/messages/conversation/")
	if !ok {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}

	msgs, err := h.Messages.Conversation(r.Context(), user.ID, other)
	if err != nil {
		h.Logger.Error("load conversation", "error", err)
		http.Error(w, `{"error":"failed to load conversation"}`, http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []*models.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// ConversationUsers handles GET /api/messages/conversation-users — everyone
// the caller has a thread with, most recent first.
func (h *MessageHandler) ConversationUsers(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	users, err := h.Messages.ConversationUsers(r.Context(), user.ID)
	if err != nil {
		h.Logger.Error("list conversation users", "error", err)
		http.Error(w, `{"error":"failed to list conversations"}`, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.ConversationUser{}
	}
	writeJSON(w, http.StatusOK, users)
}

// SearchUsers handles GET /api/messages/users/search?name= — new chat
// partner lookup.
func (h *MessageHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	users, err := h.Users.SearchWorkersByName(r.Context(), name)
	if err != nil {
		h.Logger.Error("search users", "error", err)
		http.Error(w, `{"error":"failed to search users"}`, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}
