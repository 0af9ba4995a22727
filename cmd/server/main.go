// Package main initializes and starts the bookshelf API server,
// setting up configuration, logging, database connections, repositories,
// services and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/bookshelf/internal/auth"
	"github.com/atinyakov/bookshelf/internal/catalog"
	"github.com/atinyakov/bookshelf/internal/config"
	"github.com/atinyakov/bookshelf/internal/db"
	"github.com/atinyakov/bookshelf/internal/logger"
	"github.com/atinyakov/bookshelf/internal/middleware"
	"github.com/atinyakov/bookshelf/internal/repository"
	"github.com/atinyakov/bookshelf/internal/server/handler/http"
	"github.com/atinyakov/bookshelf/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Parse command-line, file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Initialize repositories for users and books.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	bookRepo := repository.NewPostgresBookRepository(postgresDB)

	// Initialize business-logic services.
	tokens := auth.NewTokenManager(options.JWTSecret, options.TokenTTL)
	authService := service.NewAuthService(authRepo, tokens, 0)
	bookService := service.NewBookService(bookRepo)
	catalogClient := catalog.NewClient(options.GoogleBooksURL, options.GoogleBooksAPIKey, options.CatalogTimeout)

	// Create HTTP handlers.
	authHandler := http.NewAuthHandler(authService, zapLogger)
	bookHandler := &http.BookHandler{BookService: bookService, Logger: zapLogger}
	catalogHandler := &http.CatalogHandler{Catalog: catalogClient, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler,
		bookHandler,
		catalogHandler,
		middleware.BearerAuth(authService, zapLogger),
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:         options.Port,
		Handler:      router,
		ReadTimeout:  options.HTTPServer.ReadTimeout,
		WriteTimeout: options.HTTPServer.WriteTimeout,
		IdleTimeout:  options.HTTPServer.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		tlsEnabled := options.HTTPServer.TLSCert != ""
		zapLogger.Info("starting server", zap.String("addr", options.Port), zap.Bool("tls", tlsEnabled))
		if tlsEnabled {
			serveErr <- server.ListenAndServeTLS(options.HTTPServer.TLSCert, options.HTTPServer.TLSKey)
			return
		}
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		zapLogger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Error("server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown error", zap.Error(err))
		return
	}
	zapLogger.Info("server stopped gracefully")
}
