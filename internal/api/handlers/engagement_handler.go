package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/artcampus-be/internal/auth"
	"github.com/isdelr/artcampus-be/internal/models"
	"github.com/isdelr/artcampus-be/internal/services"
)

// EngagementHandler handles the acting user's engagement state: follows,
// liked/bookmarked id lists and recent searches.
type EngagementHandler struct {
	service services.EngagementServiceProvider
}

// NewEngagementHandler creates a new EngagementHandler.
func NewEngagementHandler(service services.EngagementServiceProvider) *EngagementHandler {
	return &EngagementHandler{service: service}
}

// ToggleFollow follows or unfollows an author.
func (h *EngagementHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "id")
	session := auth.SessionFromContext(r.Context())

	following, err := h.service.ToggleFollow(session, authorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// Likes returns the ids of projects the user has liked.
func (h *EngagementHandler) Likes(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.LikedProjects)
}

// Bookmarks returns the ids of projects the user has bookmarked.
func (h *EngagementHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.BookmarkedProjects)
}

// Follows returns the ids of authors the user follows.
func (h *EngagementHandler) Follows(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.FollowedAuthors)
}

// RecentSearches returns the user's remembered queries, newest first.
func (h *EngagementHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, r, h.service.RecentSearches)
}

// RecordSearch remembers a search query.
func (h *EngagementHandler) RecordSearch(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session := auth.SessionFromContext(r.Context())
	if err := h.service.RecordSearch(session, payload.Query); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearSearches empties the remembered queries.
func (h *EngagementHandler) ClearSearches(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if err := h.service.ClearSearches(session); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EngagementHandler) respondList(w http.ResponseWriter, r *http.Request, fetch func(models.Session) ([]string, error)) {
	session := auth.SessionFromContext(r.Context())
	list, err := fetch(session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
