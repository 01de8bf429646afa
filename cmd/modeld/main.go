// Package main provides the entry point for the long-running analysis service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/creditdesk/internal/config"
	"github.com/yourusername/creditdesk/internal/database"
	"github.com/yourusername/creditdesk/internal/datasource"
	"github.com/yourusername/creditdesk/internal/engine"
	"github.com/yourusername/creditdesk/internal/health"
	applogger "github.com/yourusername/creditdesk/internal/logger"
	"github.com/yourusername/creditdesk/internal/metrics"
	"github.com/yourusername/creditdesk/internal/repository"
	"github.com/yourusername/creditdesk/internal/scheduler"
	"github.com/yourusername/creditdesk/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath     = flag.String("config", "config/config.yaml", "Path to config file")
		paramsPath     = flag.String("params", "", "Path to model parameters JSON file (required)")
		statementsPath = flag.String("statements", "", "Optional statements file for scheduled ingestion")
		ingestionCron  = flag.String("ingestion-cron", "", "Cron expression for scheduled ingestion")
		retentionCron  = flag.String("retention-cron", "0 3 * * 0", "Cron expression for run retention cleanup")
		retentionDays  = flag.Int("retention-days", 90, "Delete analysis runs older than this many days")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *paramsPath == "" {
		log.Fatalf("A -params file is required")
	}

	// Set up logging
	appLog := applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Credit analysis service starting")

	// Initialize database connection and verify schema
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			appLog.WithError(err).Error("Failed to close database connection")
		}
	}()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Build model parameters: config defaults overlaid by the parameter file
	params, err := engine.LoadParametersFile(*paramsPath)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to load parameters")
	}

	eng, err := engine.NewEngine(params, db, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create engine")
	}

	// Optional scheduled ingestion from a statements file
	var ingestionSvc *service.IngestionService
	if *statementsPath != "" {
		factory := datasource.NewFactory(cfg, log.New(os.Stderr, "datasource: ", log.LstdFlags))
		source, err := factory.NewStatementSource(*statementsPath)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to build statement source")
		}

		svcLog := log.New(os.Stderr, "ingestion: ", log.LstdFlags)
		ingestionSvc = service.NewIngestionService(
			source,
			repos.Company,
			repos.Financials,
			service.NewStatementValidator(svcLog),
			service.NewStatementNormalizer(svcLog),
			applogger.NewAuditLogger(appLog),
			svcLog,
		)
	}

	// Configure scheduled jobs
	schedLog := log.New(os.Stderr, "scheduler: ", log.LstdFlags)
	sched := scheduler.NewScheduler(eng, ingestionSvc, schedLog)

	if cfg.Scheduler.Enabled {
		if err := sched.ScheduleReanalysis(cfg.Scheduler.ReanalysisCron, cfg.Scheduler.StaleRunMaxHours); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule re-analysis")
		}
	}
	if *retentionCron != "" {
		if err := sched.ScheduleRetention(*retentionCron, *retentionDays); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule retention cleanup")
		}
	}
	if ingestionSvc != nil && *ingestionCron != "" {
		if err := sched.ScheduleIngestion(*ingestionCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule ingestion")
		}
	}

	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
		Jobs:        sched,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	// Metrics server
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	appLog.WithFields(logrus.Fields{
		"scheduler_enabled": cfg.Scheduler.Enabled,
		"metrics_enabled":   cfg.Metrics.Enabled,
		"next_run":          sched.GetNextRun(),
	}).Info("Service is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	// Graceful shutdown
	appLog.Info("Initiating graceful shutdown...")
	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error during metrics server shutdown")
		}
		shutdownCancel()
	}

	appLog.Info("Credit analysis service shut down successfully")
}
