package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/artcampus-be/internal/api"
	"github.com/isdelr/artcampus-be/internal/config"
	"github.com/isdelr/artcampus-be/internal/database"
	"github.com/isdelr/artcampus-be/internal/logger"
	"github.com/isdelr/artcampus-be/internal/monitoring"
	"github.com/isdelr/artcampus-be/internal/services"
	"github.com/isdelr/artcampus-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up the key-value store
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	store := database.NewStore(db)
	if err := database.Seed(store, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed store: %v", err)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	notificationService := services.NewNotificationService(store, hub)
	userService := services.NewUserService(store)
	projectService := services.NewProjectService(store, notificationService)
	engagementService := services.NewEngagementService(store, notificationService)

	// Set up and run the background curator
	curator, err := monitoring.NewCurator(projectService, cfg.CuratorSchedule, cfg.CuratorLikeThreshold)
	if err != nil {
		log.Fatalf("Failed to create curator: %v", err)
	}
	go curator.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Hub:            hub,
		Users:          userService,
		Projects:       projectService,
		Engagement:     engagementService,
		Notifications:  notificationService,
		FrontendOrigin: cfg.FrontendOrigin,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	curator.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
