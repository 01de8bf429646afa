// Package main provides the entry point for the stress scenario CLI tool.
package main

import (
	"fmt"
	"log"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/creditdesk/internal/engine"
	"github.com/yourusername/creditdesk/internal/models"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	paramsPath string
	scenario   string
	verbose    bool
	logger     *logrus.Logger
	params     engine.ModelParameters
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&paramsPath, "params", "p", "", "Path to model parameters JSON file (required)")
	rootCmd.PersistentFlags().StringVarP(&scenario, "scenario", "s", "", "Run a single named scenario instead of the full grid")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print year-by-year rows for each scenario")
	rootCmd.MarkPersistentFlagRequired("params")
}

var rootCmd = &cobra.Command{
	Use:     "scenarios",
	Short:   "Run the stress scenario grid against a deal",
	Long:    `Evaluates named stress scenarios (mild, severe, cost shock, rate hike) against a parameter file and ranks the results worst-first by resilience.`,
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

		var err error
		params, err = engine.LoadParametersFile(paramsPath)
		if err != nil {
			return fmt.Errorf("failed to load parameters: %w", err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		runGrid()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runGrid() {
	presets := engine.NamedScenarios()
	if scenario != "" {
		presets = filterPresets(presets, scenario)
		if len(presets) == 0 {
			logger.Fatalf("Unknown scenario: %s", scenario)
		}
	}

	results, err := engine.RunScenarios(params, presets)
	if err != nil {
		logger.Fatalf("Scenario run failed: %v", err)
	}
	engine.SortByResilience(results)

	printResults(results)
}

func filterPresets(presets []engine.ScenarioPreset, name string) []engine.ScenarioPreset {
	var matched []engine.ScenarioPreset
	for _, p := range presets {
		if string(p.Name) == name {
			matched = append(matched, p)
		}
	}
	return matched
}

func printResults(results []*models.ScenarioResult) {
	fmt.Println()
	fmt.Println("Scenario          MinDSCR   AvgDSCR   Breaches   EV           Resilience")
	fmt.Println("---------------------------------------------------------------------------")
	for _, res := range results {
		ev := "n/a"
		if res.Valued() {
			ev = fmt.Sprintf("%.0f", res.EnterpriseValue)
		}
		fmt.Printf("%-16s  %-8s  %-8s  %-9d  %-11s  %6.1f\n",
			res.Name,
			ratio(res.Stats.MinDSCR),
			ratio(res.Stats.AvgDSCR),
			len(res.Breaches),
			ev,
			res.ResilienceScore,
		)

		if verbose {
			for _, row := range res.Rows {
				fmt.Printf("    year %d: EBITDA %.0f, debt service %.0f, DSCR %s, cash %.0f\n",
					row.Year, row.EBITDA, row.DebtService, ratio(row.DSCR), row.CashBalance)
			}
		}
	}
	fmt.Println()
}

func ratio(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
