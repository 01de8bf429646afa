// Package main provides the entry point for the credit analysis CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/creditdesk/internal/config"
	"github.com/yourusername/creditdesk/internal/datasource"
	"github.com/yourusername/creditdesk/internal/engine"
	applogger "github.com/yourusername/creditdesk/internal/logger"
	"github.com/yourusername/creditdesk/internal/models"
	"github.com/yourusername/creditdesk/internal/service"
)

func main() {
	var (
		paramsPath  = flag.String("params", "", "Path to model parameters JSON file (required)")
		configPath  = flag.String("config", "", "Optional path to config file for reference rates")
		historical  = flag.String("historical", "", "Optional statements JSON to derive assumptions from")
		companyName = flag.String("company", "", "Company name filter for the historical file")
		sector      = flag.String("sector", "", "Sector slug for beta lookup")
		htmlOut     = flag.String("html", "", "Write HTML report to this path")
		csvOut      = flag.String("csv", "", "Write CSV export to this path")
		restructure = flag.Bool("restructure", false, "Generate a restructuring plan")
		targetDSCR  = flag.Float64("target-dscr", 1.25, "Target minimum DSCR for restructuring")
		maxTenor    = flag.Int("max-tenor", 0, "Maximum tenor in years for restructuring options")
		equity      = flag.Bool("equity", false, "Allow equity injection options in restructuring")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	if *paramsPath == "" {
		logger.Fatal("A -params file is required")
	}

	params, err := engine.LoadParametersFile(*paramsPath)
	if err != nil {
		logger.Fatalf("Failed to load parameters: %v", err)
	}

	if *historical != "" {
		params = deriveFromHistorical(ctx, params, *historical, *companyName, logger)
	}

	if *configPath != "" {
		params = applyReferenceRates(ctx, params, *configPath, *sector, logger)
	}

	eng, err := engine.NewEngine(params, nil, logger)
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}

	result, err := eng.Run(ctx, uuid.New())
	if err != nil {
		logger.Fatalf("Analysis failed: %v", err)
	}

	fmt.Println(engine.GenerateConsoleReport(result))

	engineLog := applogger.NewEngineLogger(logger)
	if result.Valuation != nil {
		engineLog.LogValuation(result.CompanyID.String(), result.Valuation.WACC,
			result.Valuation.EnterpriseValue, result.Valuation.EquityValue)
	}
	for _, ba := range result.Balloons {
		engineLog.LogRefinancingRisk(result.CompanyID.String(), ba.TrancheName,
			string(ba.Risk), ba.Coverage, ba.MaturityYear)
	}

	if *restructure {
		runRestructuring(ctx, eng, *targetDSCR, *maxTenor, *equity, logger)
	}

	if *htmlOut != "" {
		if err := engine.GenerateHTMLReport(result, *htmlOut); err != nil {
			logger.Fatalf("Failed to write HTML report: %v", err)
		}
		logger.WithField("path", *htmlOut).Info("HTML report written")
	}

	if *csvOut != "" {
		if err := engine.GenerateCSVExport(result, *csvOut); err != nil {
			logger.Fatalf("Failed to write CSV export: %v", err)
		}
		logger.WithField("path", *csvOut).Info("CSV export written")
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

// deriveFromHistorical replaces the operating assumptions in params
// with values derived from a statements file
func deriveFromHistorical(ctx context.Context, params engine.ModelParameters, path, companyName string, logger *logrus.Logger) engine.ModelParameters {
	source := datasource.NewFileStatementSource(path)
	statements, err := source.FetchStatements(ctx, companyName)
	if err != nil {
		logger.Fatalf("Failed to read historical statements: %v", err)
	}

	normalizer := service.NewStatementNormalizer(log.New(io.Discard, "", 0))
	years := make([]models.HistoricalYear, 0, len(statements))
	for i := range statements {
		year, err := normalizer.NormalizeStatement(&statements[i], uuid.Nil)
		if err != nil {
			logger.Fatalf("Failed to normalize fiscal year %d: %v", statements[i].FiscalYear, err)
		}
		years = append(years, *year)
	}

	assumptions, err := engine.DeriveAssumptions(years)
	if err != nil {
		logger.Fatalf("Failed to derive assumptions: %v", err)
	}

	applogger.NewEngineLogger(logger).LogAssumptionDerivation(
		companyName, assumptions.YearsUsed, assumptions.RevenueGrowth, assumptions.EBITDAMargin)

	return engine.ApplyAssumptions(params, assumptions)
}

// applyReferenceRates overlays current market reference rates onto the
// valuation inputs, falling back to static rates when the provider is down
func applyReferenceRates(ctx context.Context, params engine.ModelParameters, configPath, sector string, logger *logrus.Logger) engine.ModelParameters {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	factory := datasource.NewFactory(cfg, log.New(os.Stderr, "datasource: ", log.LstdFlags))
	source, err := factory.NewReferenceSourceWithFallback()
	if err != nil {
		logger.Fatalf("Failed to build reference source: %v", err)
	}

	dsLog := applogger.NewDatasourceLogger(logger)
	start := time.Now()
	ref, err := source.FetchReference(ctx)
	if err != nil {
		dsLog.LogFetchError(cfg.Datasource.Provider, err.Error())
		logger.Warn("Reference rates unavailable, keeping parameter file values")
		return params
	}
	dsLog.LogReferenceFetch(ref.Source, sector, false, float64(time.Since(start).Milliseconds()))

	params.Valuation.RiskFreeRate = ref.RiskFreeRate
	params.Valuation.MarketRiskPremium = ref.EquityRiskPremium
	if sector != "" {
		if beta, err := source.SectorBeta(ctx, sector); err == nil {
			params.Valuation.Beta = beta
		}
	}

	logger.WithFields(logrus.Fields{
		"source":         ref.Source,
		"risk_free_rate": ref.RiskFreeRate,
		"beta":           params.Valuation.Beta,
	}).Info("Applied market reference rates")

	return params
}

func runRestructuring(ctx context.Context, eng *engine.Engine, targetDSCR float64, maxTenor int, equity bool, logger *logrus.Logger) {
	req := engine.RestructuringRequest{
		TargetMinDSCR: targetDSCR,
		IncludeEquity: equity,
		MaxTenorYears: maxTenor,
	}

	plan, err := eng.Restructure(ctx, req)
	if err != nil {
		logger.Fatalf("Restructuring failed: %v", err)
	}

	fmt.Println(engine.GenerateRestructuringReport(plan))
}
