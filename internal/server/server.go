// Package server is the composition root: it picks the stores, builds the
// services and handlers, mounts the routes and runs the HTTP server.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → stores (memory | sqlite, optional redis catalog)
//	             → CatalogService, LedgerService, SummaryService
//	             → FoodHandler, EntryHandler, NutritionHandler
//
// Nothing below this package knows which store implementation it got.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/nutrition-tracker/internal/config"
	"github.com/sakif/nutrition-tracker/internal/fooddata"
	"github.com/sakif/nutrition-tracker/internal/handler"
	"github.com/sakif/nutrition-tracker/internal/middleware"
	"github.com/sakif/nutrition-tracker/internal/model"
	"github.com/sakif/nutrition-tracker/internal/owner"
	"github.com/sakif/nutrition-tracker/internal/repository"
	"github.com/sakif/nutrition-tracker/internal/repository/memory"
	redisRepo "github.com/sakif/nutrition-tracker/internal/repository/redis"
	sqliteRepo "github.com/sakif/nutrition-tracker/internal/repository/sqlite"
	"github.com/sakif/nutrition-tracker/internal/service"
)

// Server owns the router and every resource that must be closed on shutdown.
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	closers []io.Closer
}

// stores groups the repositories the services are built from.
type stores struct {
	foods     repository.FoodRepository
	entries   repository.EntryRepository
	summaries repository.SummaryRepository
}

// New wires the whole application. lookup is the remote food database; pass
// nil to use the FoodData Central client built from cfg.
func New(cfg config.Config, logger *slog.Logger, lookup fooddata.Lookup) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	st, err := s.openStores()
	if err != nil {
		s.Close()
		return nil, err
	}

	if lookup == nil {
		lookup = fooddata.NewClient(fooddata.Config{
			BaseURL: cfg.FDCBaseURL,
			APIKey:  cfg.FDCAPIKey,
			Timeout: cfg.FDCTimeout,
		}, logger.With(slog.String("component", "fooddata")))
	}

	catalog := service.NewCatalogService(st.foods, lookup, logger)

	// Seeding overwrites the local records on every start, so edits to the
	// seed table reach existing databases too.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := catalog.Seed(ctx, model.SeedFoods()); err != nil {
		s.Close()
		return nil, fmt.Errorf("seeding catalog: %w", err)
	}

	s.setupRoutes(
		handler.NewFoodHandler(catalog, logger),
		handler.NewEntryHandler(service.NewLedgerService(st.entries, st.foods, logger), logger),
		handler.NewNutritionHandler(service.NewSummaryService(st.entries, st.foods, st.summaries, logger), logger),
	)

	return s, nil
}

// openStores builds the repositories selected by the config and registers
// anything that holds a connection for closing.
func (s *Server) openStores() (stores, error) {
	st := stores{summaries: memory.NewSummaryStore()}

	switch s.config.Store {
	case config.StoreSQLite:
		if dir := filepath.Dir(s.config.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return stores{}, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		db, err := sqliteRepo.New(s.config.DBPath)
		if err != nil {
			return stores{}, fmt.Errorf("opening database: %w", err)
		}
		s.closers = append(s.closers, db)
		st.foods = db.Foods()
		st.entries = db.Entries()
	default:
		st.foods = memory.NewFoodStore()
		st.entries = memory.NewEntryStore()
	}

	if s.config.RedisAddr != "" {
		foods, err := redisRepo.New(redisRepo.Config{
			Addr:      s.config.RedisAddr,
			KeyPrefix: s.config.RedisKeyPrefix,
		})
		if err != nil {
			return stores{}, fmt.Errorf("connecting to redis: %w", err)
		}
		s.closers = append(s.closers, foods)
		st.foods = foods
	}

	s.logger.Info("stores ready",
		slog.String("entries", s.config.Store),
		slog.Bool("redis_catalog", s.config.RedisAddr != ""),
	)
	return st, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	GET    /healthz
//	GET    /api/foods/search?q=&limit=
//	GET    /api/foods/{id}
//	POST   /api/food-entries
//	GET    /api/food-entries?date=
//	DELETE /api/food-entries/{id}
//	GET    /api/nutrition/daily?date=
//
// MIDDLEWARE ORDER MATTERS:
// RequestID and owner.Middleware run before Logger so the log line carries
// both; Recoverer sits inside Logger so a panic is logged as a 500.
func (s *Server) setupRoutes(foods *handler.FoodHandler, entries *handler.EntryHandler, nutrition *handler.NutritionHandler) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", owner.Header},
		ExposedHeaders: []string{chimiddleware.RequestIDHeader},
		MaxAge:         300,
	}))
	s.router.Use(owner.Middleware(s.config.DefaultOwner))
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/healthz", handler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/foods/search", foods.HandleSearch)
		r.Get("/foods/{id}", foods.HandleGet)

		r.Post("/food-entries", entries.HandleCreate)
		r.Get("/food-entries", entries.HandleList)
		r.Delete("/food-entries/{id}", entries.HandleDelete)

		r.Get("/nutrition/daily", nutrition.HandleDaily)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests finish
// (30s at most), then close the stores.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // a search may wait on FDC for FDC_TIMEOUT
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.Store),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Close releases the stores. Start calls it on the way out; tests that never
// start the server call it directly.
func (s *Server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			s.logger.Warn("failed to close store", slog.String("error", err.Error()))
		}
	}
	s.closers = nil
}
