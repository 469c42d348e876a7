package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/dm9/collections-engine/internal/config"
	"github.com/dm9/collections-engine/internal/email"
	"github.com/dm9/collections-engine/internal/logger"
	"github.com/dm9/collections-engine/internal/repository"
	"github.com/dm9/collections-engine/internal/service"
	customError "github.com/dm9/collections-engine/pkg/errors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg)
	log.Info("Starting alert scheduler...")

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	alertService := buildAlertService(cfg, db, redisClient, log)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Warnf("Unknown timezone %q, falling back to UTC", cfg.Scheduler.Timezone)
		location = time.UTC
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Schedule tasks
	setupCronJobs(c, cfg, alertService, log)

	// Start the scheduler
	c.Start()
	log.Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, alertService *service.AlertService, log *logrus.Logger) {
	run := func(trigger string) {
		log.WithField("trigger", trigger).Info("Running daily alert checks...")

		err := alertService.RunDailyChecks(context.Background())
		if errors.Is(err, customError.ErrRunInProgress) {
			log.WithField("trigger", trigger).Info("Skipping: a checks run is already in progress")
			return
		}
		if err != nil {
			log.WithError(err).WithField("trigger", trigger).Error("Daily alert checks failed")
			return
		}

		log.WithField("trigger", trigger).Info("Daily alert checks completed")
	}

	// Primary daily run
	_, err := c.AddFunc(cfg.Scheduler.DailyCronSpec, func() { run("daily") })
	if err != nil {
		log.Errorf("Error scheduling daily checks job: %v", err)
	}

	// Safety re-run during the day; the single-flight lock and the dedupe
	// queries make extra runs harmless.
	_, err = c.AddFunc(cfg.Scheduler.SafetyCronSpec, func() { run("safety") })
	if err != nil {
		log.Errorf("Error scheduling safety checks job: %v", err)
	}

	log.Info("Cron jobs scheduled successfully")
}

func buildAlertService(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, log *logrus.Logger) *service.AlertService {
	accountRepo := repository.NewAccountRepository(db)
	consumerRepo := repository.NewConsumerRepository(db)
	ptpRepo := repository.NewPTPRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	escalationRepo := repository.NewEscalationRepository(db)
	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	eventRepo := repository.NewEventRepository(db)

	sender := email.NewSenderFromConfig(cfg, log)
	clock := service.NewSystemClock()
	locker := service.NewRedisRunLocker(redisClient)
	dispatcher := service.NewDispatcher(userRepo, consumerRepo, notifRepo, sender, clock, log)

	return service.NewAlertService(
		accountRepo, consumerRepo, ptpRepo, alertRepo, escalationRepo,
		userRepo, eventRepo, dispatcher, locker, clock, log, cfg,
	)
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
