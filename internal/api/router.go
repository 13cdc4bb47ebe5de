package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/artcampus-be/internal/api/handlers"
	"github.com/isdelr/artcampus-be/internal/auth"
	"github.com/isdelr/artcampus-be/internal/services"
	"github.com/isdelr/artcampus-be/internal/websocket"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Hub           *websocket.Hub
	Users         services.UserServiceProvider
	Projects      services.ProjectServiceProvider
	Engagement    services.EngagementServiceProvider
	Notifications services.NotificationServiceProvider

	// FrontendOrigin is the origin allowed by CORS.
	FrontendOrigin string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users)
	projectHandler := handlers.NewProjectHandler(deps.Projects, deps.Engagement)
	engagementHandler := handlers.NewEngagementHandler(deps.Engagement)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub)
	adminHandler := handlers.NewAdminHandler(deps.Users, deps.Projects)

	requireAuth := auth.JWTMiddleware()
	requireAdmin := auth.AdminOnly()

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Session endpoints
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.With(requireAuth).Post("/auth/logout", userHandler.Logout)
		r.With(requireAuth).Get("/auth/me", userHandler.GetMe)

		// Live notification stream
		r.With(requireAuth).Get("/ws", wsHandler.Serve)

		// Public user profiles
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.With(requireAuth).Put("/", userHandler.Update)
			r.With(requireAuth).Put("/password", userHandler.ChangePassword)
		})

		// Projects and embedded comments
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.With(requireAuth).Post("/", projectHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projectHandler.Get)
				r.With(requireAuth).Delete("/", projectHandler.Delete)
				r.With(requireAuth).Post("/like", projectHandler.ToggleLike)
				r.With(requireAuth).Post("/bookmark", projectHandler.ToggleBookmark)
				r.Route("/comments", func(r chi.Router) {
					r.With(requireAuth).Post("/", projectHandler.AddComment)
					r.With(requireAuth).Post("/read", projectHandler.MarkCommentsRead)
					r.Get("/unread", projectHandler.UnreadComments)
					r.With(requireAuth).Post("/{commentId}/like", projectHandler.ToggleCommentLike)
				})
			})
		})

		// Follows
		r.With(requireAuth).Post("/authors/{id}/follow", engagementHandler.ToggleFollow)

		// The acting user's engagement state
		r.Route("/me", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/likes", engagementHandler.Likes)
			r.Get("/bookmarks", engagementHandler.Bookmarks)
			r.Get("/follows", engagementHandler.Follows)
			r.Get("/searches", engagementHandler.RecentSearches)
			r.Post("/searches", engagementHandler.RecordSearch)
			r.Delete("/searches", engagementHandler.ClearSearches)
		})

		// Notification feed
		r.Route("/notifications", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", notificationHandler.List)
			r.Get("/unread", notificationHandler.UnreadCount)
			r.Post("/read-all", notificationHandler.MarkAllRead)
			r.Post("/{id}/read", notificationHandler.MarkRead)
			r.Delete("/{id}", notificationHandler.Delete)
		})

		// Moderation panel
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{id}/role", adminHandler.SetRole)
			r.Put("/users/{id}/blocked", adminHandler.SetBlocked)
			r.Put("/projects/{id}/featured", adminHandler.SetFeatured)
		})
	})

	return r
}
