package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/onemed1a/backend/internal/app"
	"github.com/onemed1a/backend/internal/auth"
	cataloghttp "github.com/onemed1a/backend/internal/catalog/httpapi"
	"github.com/onemed1a/backend/internal/config"
	pg "github.com/onemed1a/backend/internal/storage/postgres"
	umhttp "github.com/onemed1a/backend/internal/usermedia/httpapi"
	umservice "github.com/onemed1a/backend/internal/usermedia/service"
	usershttp "github.com/onemed1a/backend/internal/users/httpapi"
	usersservice "github.com/onemed1a/backend/internal/users/service"
)

func run(logger zerolog.Logger) app.Runner {
	return func(ctx context.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}

		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()

		// Dependencies
		statusRepo := pg.NewStatusRepo(db)
		userRepo := pg.NewUserRepo(db)
		catalogRepo := pg.NewCatalogRepo(db)
		outboxRepo := pg.NewOutboxRepo(db)

		umSvc := umservice.New(statusRepo, catalogRepo, outboxRepo, logger)
		usersSvc := usersservice.New(userRepo)

		umHandler := umhttp.New(umSvc)
		usersHandler := usershttp.New(usersSvc)
		catalogHandler := cataloghttp.New(catalogRepo)

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Route("/usermedia", umHandler.Routes)
			usersHandler.Routes(r)
			catalogHandler.Routes(r)
		})

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				errCh <- err
			}
		}()
		logger.Info().Str("addr", cfg.Addr).Msg("http server listening")

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil

		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("listen and serve: %w", err)
		}
	}
}
