package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/artcampus-be/internal/auth"
	"github.com/isdelr/artcampus-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ProjectHandler handles HTTP requests for projects, their comments and
// per-project engagement actions.
type ProjectHandler struct {
	service    services.ProjectServiceProvider
	engagement services.EngagementServiceProvider
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service services.ProjectServiceProvider, engagement services.EngagementServiceProvider) *ProjectHandler {
	return &ProjectHandler{service: service, engagement: engagement}
}

// List handles project listings: free-text search, category filter, sort
// order, author filter and the featured shelf, all via query parameters.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("featured") == "true" {
		projects, err := h.service.ListFeatured()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, projects)
		return
	}

	if author := q.Get("author"); author != "" || q.Has("mine") {
		session := auth.SessionFromContext(r.Context())
		projects, err := h.service.ListByAuthor(session, author)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, projects)
		return
	}

	projects, err := h.service.Search(services.SearchOptions{
		Query:    q.Get("query"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Create handles publishing a new project.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload services.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session := auth.SessionFromContext(r.Context())
	project, err := h.service.Create(session, payload)
	if err != nil {
		log.Warn().Err(err).Str("user_id", session.UserID).Msg("Failed to create project")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// Get handles retrieving a single project. ?view=true also counts a view.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recordView := r.URL.Query().Get("view") == "true"

	project, err := h.service.GetByID(id, recordView)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Delete handles removing a project (owner or admin).
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session := auth.SessionFromContext(r.Context())
	if err := h.service.Delete(session, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddComment appends a comment to a project.
func (h *ProjectHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session := auth.SessionFromContext(r.Context())
	comment, err := h.service.AddComment(session, id, payload.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// MarkCommentsRead flags every comment on the project as read.
func (h *ProjectHandler) MarkCommentsRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.MarkCommentsRead(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comments marked as read"})
}

// UnreadComments returns the project's unread comment count.
func (h *ProjectHandler) UnreadComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, map[string]int{"count": h.service.CountUnreadComments(id)})
}

// ToggleLike likes or unlikes the project for the acting user.
func (h *ProjectHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session := auth.SessionFromContext(r.Context())

	liked, likes, err := h.engagement.ToggleProjectLike(session, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"liked": liked, "likes": likes})
}

// ToggleCommentLike likes or unlikes one comment.
func (h *ProjectHandler) ToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	commentID := chi.URLParam(r, "commentId")
	session := auth.SessionFromContext(r.Context())

	liked, likes, err := h.engagement.ToggleCommentLike(session, id, commentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"liked": liked, "likes": likes})
}

// ToggleBookmark adds or removes the project from the user's bookmarks.
func (h *ProjectHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session := auth.SessionFromContext(r.Context())

	bookmarked, err := h.engagement.ToggleBookmark(session, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}
