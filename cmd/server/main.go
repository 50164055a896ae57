package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/dpaiva/emprestimos/internal/auth"
	"github.com/dpaiva/emprestimos/internal/config"
	"github.com/dpaiva/emprestimos/internal/handler"
	"github.com/dpaiva/emprestimos/internal/repository"
	"github.com/dpaiva/emprestimos/internal/service"
	"github.com/dpaiva/emprestimos/pkg/response"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "emprestimos",
	})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "err", err)
	}

	if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", "err", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	sessionStore := auth.NewRedisStore(redisClient)
	clientService := service.NewClientService(clientRepo, logger)
	loanService := service.NewLoanService(loanRepo, clientRepo, cfg, logger)
	importService := service.NewImportService(clientRepo, loanRepo, logger)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, sessionStore, cfg, logger)
	clientHandler := handler.NewClientHandler(clientService, loanService)
	loanHandler := handler.NewLoanHandler(loanService)
	importHandler := handler.NewImportHandler(importService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(logger, sessionStore, authHandler, clientHandler, loanHandler, importHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", "err", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "err", err)
	}

	logger.Info("server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	logger *log.Logger,
	sessionStore auth.Store,
	authHandler *handler.AuthHandler,
	clientHandler *handler.ClientHandler,
	loanHandler *handler.LoanHandler,
	importHandler *handler.ImportHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Sign-in is the only open API route
	router.HandleFunc("/api/v1/auth/sessions", authHandler.SignIn).Methods("POST")

	// Authenticated API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware(sessionStore))

	api.HandleFunc("/auth/sessions", authHandler.SignOut).Methods("DELETE")
	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/clients", clientHandler.List).Methods("GET")
	api.HandleFunc("/clients", auth.RequireAdmin(clientHandler.Create)).Methods("POST")
	api.HandleFunc("/clients/{id}", clientHandler.Get).Methods("GET")
	api.HandleFunc("/clients/{id}", auth.RequireAdmin(clientHandler.Update)).Methods("PUT")
	api.HandleFunc("/clients/{id}/loans", clientHandler.Loans).Methods("GET")

	api.HandleFunc("/loans", loanHandler.List).Methods("GET")
	api.HandleFunc("/loans", loanHandler.Create).Methods("POST")
	api.HandleFunc("/loans/preview", loanHandler.Preview).Methods("POST")
	api.HandleFunc("/loans/summary", loanHandler.Summary).Methods("GET")
	api.HandleFunc("/loans/{id}", loanHandler.Get).Methods("GET")
	api.HandleFunc("/loans/{id}", loanHandler.Update).Methods("PUT")
	api.HandleFunc("/loans/{id}/payment", loanHandler.MarkPaid).Methods("POST")
	api.HandleFunc("/loans/{id}/payment", loanHandler.ReversePayment).Methods("DELETE")

	api.HandleFunc("/imports", auth.RequireAdmin(importHandler.Import)).Methods("POST")

	return router
}
