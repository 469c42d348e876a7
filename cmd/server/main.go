package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/dm9/collections-engine/internal/config"
	"github.com/dm9/collections-engine/internal/email"
	"github.com/dm9/collections-engine/internal/handler"
	"github.com/dm9/collections-engine/internal/logger"
	"github.com/dm9/collections-engine/internal/repository"
	"github.com/dm9/collections-engine/internal/service"
	"github.com/dm9/collections-engine/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg)

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	consumerRepo := repository.NewConsumerRepository(db)
	ptpRepo := repository.NewPTPRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	escalationRepo := repository.NewEscalationRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Initialize services
	sender := email.NewSenderFromConfig(cfg, log)
	clock := service.NewSystemClock()
	locker := service.NewRedisRunLocker(redisClient)
	dispatcher := service.NewDispatcher(userRepo, consumerRepo, notifRepo, sender, clock, log)
	alertService := service.NewAlertService(
		accountRepo, consumerRepo, ptpRepo, alertRepo, escalationRepo,
		userRepo, eventRepo, dispatcher, locker, clock, log, cfg,
	)

	alertHandler := handler.NewAlertHandler(alertService)
	escalationHandler := handler.NewEscalationHandler(alertService)
	checksHandler := handler.NewChecksHandler(alertService)
	healthHandler := handler.NewHealthHandler(db, redisClient, locker)

	// Setup routes
	router := setupRoutes(alertHandler, escalationHandler, checksHandler, healthHandler)
	router.Use(response.LoggingMiddleware(log))
	router.Use(response.CORSMiddleware)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

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
	alertHandler *handler.AlertHandler,
	escalationHandler *handler.EscalationHandler,
	checksHandler *handler.ChecksHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/alerts", alertHandler.ListAlerts).Methods("GET")
	api.HandleFunc("/alerts/{alertId}/acknowledge", alertHandler.AcknowledgeAlert).Methods("PATCH")
	api.HandleFunc("/alerts/{alertId}/resolve", alertHandler.ResolveAlert).Methods("PATCH")

	api.HandleFunc("/escalations", escalationHandler.ListEscalations).Methods("GET")
	api.HandleFunc("/escalations/{escalationId}/acknowledge", escalationHandler.AcknowledgeEscalation).Methods("PATCH")
	api.HandleFunc("/escalations/{escalationId}/resolve", escalationHandler.ResolveEscalation).Methods("PATCH")

	api.HandleFunc("/checks/run", checksHandler.RunChecks).Methods("POST")

	return router
}
