// Package server wires the registry together and runs the HTTP server.
//
// This is the composition root: New builds every dependency from a
// config.Config in one place, and each layer only receives what it needs:
//
//	config → table store + photo store + verifier + token service
//	       → services → handlers → routes
//
// Handlers never touch the store directly and services never touch HTTP.
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

	"github.com/Riddhikharpe/house-helpers/internal/auth"
	"github.com/Riddhikharpe/house-helpers/internal/config"
	"github.com/Riddhikharpe/house-helpers/internal/handler"
	"github.com/Riddhikharpe/house-helpers/internal/middleware"
	"github.com/Riddhikharpe/house-helpers/internal/repository"
	sqliteRepo "github.com/Riddhikharpe/house-helpers/internal/repository/sqlite"
	"github.com/Riddhikharpe/house-helpers/internal/repository/xlsx"
	"github.com/Riddhikharpe/house-helpers/internal/service"
	"github.com/Riddhikharpe/house-helpers/internal/storage"
)

// shutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server owns the router and the resources that must be released on
// shutdown (the SQLite connection, when that backend is selected).
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	closers []io.Closer
}

// New builds the server from cfg. The table store is initialized here, so
// the spreadsheet (or database table) and the uploads directory exist
// before the first request.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	repo, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}

	photos, err := s.openPhotoStore(ctx)
	if err != nil {
		s.close()
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, auth.DefaultTokenTTL)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	if err := s.setupRoutes(repo, photos, s.verifier(), tokens); err != nil {
		s.close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// openStore selects the table store backend and makes sure its table exists.
func (s *Server) openStore(ctx context.Context) (repository.HelperRepository, error) {
	var repo repository.HelperRepository

	switch s.config.StoreBackend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(s.config.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		db, err := sqliteRepo.New(s.config.DBPath, filepath.Base(s.config.ExcelFile))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.closers = append(s.closers, db)
		repo = db
	default:
		repo = xlsx.New(s.config.ExcelFile)
	}

	if err := repo.Initialize(ctx); err != nil {
		s.close()
		return nil, fmt.Errorf("initializing helper table: %w", err)
	}

	s.logger.Info("helper table ready",
		slog.String("backend", s.config.StoreBackend),
		slog.String("file", s.config.ExcelFile),
	)
	return repo, nil
}

func (s *Server) openPhotoStore(ctx context.Context) (storage.PhotoStore, error) {
	if s.config.S3.Enabled() {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          s.config.S3.Bucket,
			Region:          s.config.S3.Region,
			Endpoint:        s.config.S3.Endpoint,
			AccessKeyID:     s.config.S3.AccessKeyID,
			SecretAccessKey: s.config.S3.SecretAccessKey,
			UsePathStyle:    s.config.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("creating S3 photo store: %w", err)
		}
		s.logger.Info("photos stored in S3", slog.String("bucket", s.config.S3.Bucket))
		return store, nil
	}

	store, err := storage.NewLocalStore(s.config.UploadsDir)
	if err != nil {
		return nil, err
	}
	s.logger.Info("photos stored locally", slog.String("dir", s.config.UploadsDir))
	return store, nil
}

// verifier prefers the bcrypt hash when one is configured.
func (s *Server) verifier() auth.Verifier {
	if s.config.AdminPasswordHash != "" {
		return auth.NewHashedVerifier(
			map[string]string{s.config.AdminUsername: s.config.AdminPasswordHash},
			auth.NewPasswordService(),
			s.logger,
		)
	}
	return auth.NewStaticVerifier(map[string]string{s.config.AdminUsername: s.config.AdminPassword})
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
// GET    /               → page with the three forms (HTML)
// GET    /health         → liveness
// POST   /api/helpers    → register a helper (multipart)
// GET    /api/helpers    → search by max_rate
// POST   /api/login      → set the download cookie
// POST   /api/logout     → clear it
// POST   /api/download   → download with form credentials
// GET    /api/download   → download with the cookie (RequireAuth)
//
// MIDDLEWARE ORDER MATTERS:
// RequestID runs first so Logger can include the ID; Recoverer sits inside
// Logger so a recovered panic is still logged as a 500.
func (s *Server) setupRoutes(
	repo repository.HelperRepository,
	photos storage.PhotoStore,
	verifier auth.Verifier,
	tokens *auth.TokenService,
) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	pageHandler, err := handler.NewPageHandler(s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pageHandler.HandleIndex)
	s.router.Get("/health", handler.HandleHealth)

	registration := service.NewRegistrationService(repo, photos, time.Now, s.logger)
	search := service.NewSearchService(repo, s.logger)
	downloads := service.NewDownloadService(repo, verifier, tokens, s.logger)

	helperHandler := handler.NewHelperHandler(registration, search, s.logger)
	downloadHandler := handler.NewDownloadHandler(downloads, tokens.TTL(), s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/helpers", helperHandler.HandleRegister)
		r.Get("/helpers", helperHandler.HandleSearch)

		r.Post("/login", downloadHandler.HandleLogin)
		r.Post("/logout", downloadHandler.HandleLogout)
		r.Post("/download", downloadHandler.HandleDownload)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/download", downloadHandler.HandleDownloadAuthenticated)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully:
//  1. stop accepting connections
//  2. wait up to 30s for in-flight requests
//  3. close the store
func (s *Server) Start() error {
	defer s.close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Close releases the store. Start does this itself on return.
func (s *Server) Close() {
	s.close()
}

func (s *Server) close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn("failed to close resource", slog.String("error", err.Error()))
		}
	}
	s.closers = nil
}
