package server

import (
	"context"
	"fmt"
	"net/http"

	"crud_api/internal/config"
	"crud_api/internal/database"
	"crud_api/internal/handlers"
	"crud_api/internal/repositories"
	"crud_api/internal/routes"
	"crud_api/internal/services"
)

// NewServer opens the database, applies migrations and wires every layer
// into an *http.Server. The caller owns the returned *database.DB and must
// close it after the server has shut down.
func NewServer(ctx context.Context, cfg *config.Config) (*http.Server, *database.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      NewHandler(cfg, db),
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, db, nil
}

// NewHandler performs the dependency injection from repositories up to the
// router.
func NewHandler(cfg *config.Config, db *database.DB) http.Handler {
	todoRepo := repositories.NewTodoRepository(db)
	ownerRepo := repositories.NewCarOwnerRepository(db)
	carRepo := repositories.NewCarRepository(db)

	todoService := services.NewTodoService(db, todoRepo)
	ownerService := services.NewCarOwnerService(db, ownerRepo)
	carService := services.NewCarService(db, carRepo, ownerRepo)

	return routes.NewRouter(cfg, routes.Handlers{
		Health:   handlers.NewHealthHandler(db),
		Todo:     handlers.NewTodoHandler(todoService, cfg.MaxUploadBytes),
		CarOwner: handlers.NewCarOwnerHandler(ownerService, cfg.MaxUploadBytes),
		Car:      handlers.NewCarHandler(carService, cfg.MaxUploadBytes),
	})
}
