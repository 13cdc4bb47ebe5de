package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/artcampus-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles the moderation panel: user management and project
// curation. All routes are mounted behind the admin-only middleware.
type AdminHandler struct {
	users    services.UserServiceProvider
	projects services.ProjectServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users services.UserServiceProvider, projects services.ProjectServiceProvider) *AdminHandler {
	return &AdminHandler{users: users, projects: projects}
}

// ListUsers returns every account.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SetRole promotes or demotes an account.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.SetRole(id, payload.Role)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Str("role", payload.Role).Msg("Failed to change role")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetBlocked blocks or unblocks an account.
func (h *AdminHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Blocked bool `json:"blocked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.SetBlocked(id, payload.Blocked)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Bool("blocked", payload.Blocked).Msg("Failed to change blocked state")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetFeatured toggles a project's featured flag.
func (h *AdminHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var payload struct {
		Featured bool `json:"featured"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	project, err := h.projects.SetFeatured(id, payload.Featured)
	if err != nil {
		log.Warn().Err(err).Str("project_id", id).Msg("Failed to change featured flag")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}
