package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inamate/sketchpad/internal/api"
	"github.com/inamate/sketchpad/internal/auth"
	"github.com/inamate/sketchpad/internal/config"
	"github.com/inamate/sketchpad/internal/session"
	"github.com/inamate/sketchpad/internal/shape"
	"github.com/inamate/sketchpad/internal/sketch"
	"github.com/inamate/sketchpad/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, err := cfg.Level()
	if err != nil {
		slog.Error("parse log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)

	hub := session.NewHub(st,
		session.WithIdleTimeout(cfg.SessionIdle),
		session.WithRestore(cfg.RestoreOnStart && cfg.StoreDriver != config.DriverNone),
		session.WithHighlightOnMove(cfg.HighlightOnMove),
		session.WithShowUndone(cfg.ShowUndone),
		session.WithLoadClean(cfg.LoadClean),
		session.WithManagerOptions(managerOptions(cfg)...),
	)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: api.NewRouter(api.Deps{
			Hub:            hub,
			Auth:           authService,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	// Stop the hub last so it saves every changed session
	slog.Info("saving sessions...")
	cancel()
	<-hubDone
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.DriverSQLite:
		db, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return store.NewMemory(), nil
	}
}

func managerOptions(cfg *config.Config) []sketch.Option {
	color := shape.Color(cfg.StrokeColor)

	st := sketch.DefaultStyle()
	st.StrokeColor = color
	st.StrokeWidth = cfg.StrokeWidth

	text := sketch.DefaultTextStyle()
	text.StrokeColor = color
	text.FillColor = color
	text.FontSize = cfg.TextSize

	return []sketch.Option{sketch.WithStyle(st), sketch.WithTextStyle(text)}
}
