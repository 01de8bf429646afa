// Package main provides the entry point for the statement ingestion tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/creditdesk/internal/config"
	"github.com/yourusername/creditdesk/internal/database"
	"github.com/yourusername/creditdesk/internal/datasource"
	applogger "github.com/yourusername/creditdesk/internal/logger"
	"github.com/yourusername/creditdesk/internal/repository"
	"github.com/yourusername/creditdesk/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile  string
	inputFile   string
	companyName string
	appLog      *logrus.Logger
	cfg         *config.Config
	db          *database.DB
	repos       *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "Path to statements JSON file (required)")
	rootCmd.PersistentFlags().StringVar(&companyName, "company", "", "Only ingest statements for this company")
	rootCmd.MarkPersistentFlagRequired("file")
}

var rootCmd = &cobra.Command{
	Use:     "ingest",
	Short:   "Ingest historical financial statements",
	Long:    `Reads raw statement extracts, normalizes and validates them, and persists companies and fiscal years to the database.`,
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngestion(cmd.Context())
	},
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}

	if db != nil {
		if err := db.Close(context.Background()); err != nil {
			appLog.WithError(err).Error("Failed to close database connection")
		}
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func runIngestion(ctx context.Context) error {
	factory := datasource.NewFactory(cfg, log.New(os.Stderr, "datasource: ", log.LstdFlags))
	source, err := factory.NewStatementSource(inputFile)
	if err != nil {
		return fmt.Errorf("failed to build statement source: %w", err)
	}

	svcLog := log.New(os.Stderr, "ingestion: ", log.LstdFlags)
	svc := service.NewIngestionService(
		source,
		repos.Company,
		repos.Financials,
		service.NewStatementValidator(svcLog),
		service.NewStatementNormalizer(svcLog),
		applogger.NewAuditLogger(appLog),
		svcLog,
	)

	metrics, err := svc.IngestCompany(ctx, companyName)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println(metrics.String())
	return nil
}
