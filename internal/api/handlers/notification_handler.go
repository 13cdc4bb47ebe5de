package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/artcampus-be/internal/auth"
	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/isdelr/artcampus-be/internal/services"
)

// NotificationHandler handles HTTP requests for the acting user's
// notification feed.
type NotificationHandler struct {
	service services.NotificationServiceProvider
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service services.NotificationServiceProvider) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List returns the feed, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	feed, err := h.service.List(session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if feed == nil {
		feed = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, feed)
}

// UnreadCount returns the stored unread counter.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"count": h.service.UnreadCount(session.UserID)})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.service.MarkRead(session.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllRead marks the whole feed as read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if err := h.service.MarkAllRead(session.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}

// Delete removes one notification from the feed.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(session.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
