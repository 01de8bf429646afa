package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func offlineResult(t *testing.T) *Result {
	t.Helper()
	eng, err := NewEngine(testParams(), nil, quietLogger())
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	result, err := eng.Analyze(context.Background())
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	return result
}

// TestGenerateConsoleReport tests the terminal report layout
func TestGenerateConsoleReport(t *testing.T) {
	report := GenerateConsoleReport(offlineResult(t))

	for _, want := range []string{
		"Credit Analysis Report",
		"Resilience Score:",
		"Min DSCR:",
		"Covenant Breaches:",
		"Enterprise Value:",
		"WACC:",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

// TestGenerateRestructuringReport tests the advisor report layout
func TestGenerateRestructuringReport(t *testing.T) {
	eng, err := NewEngine(stressedParams(), nil, quietLogger())
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	plan, err := eng.Restructure(context.Background(), RestructuringRequest{TargetMinDSCR: 1.25})
	if err != nil {
		t.Fatalf("restructure failed: %v", err)
	}

	report := GenerateRestructuringReport(plan)
	for _, want := range []string{
		"Restructuring Plan",
		"Breach years:",
		"Recommended:",
		"Conditions Precedent",
		"Monitoring",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

// TestGenerateHTMLReport tests writing the HTML artifact
func TestGenerateHTMLReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "analysis.html")
	if err := GenerateHTMLReport(offlineResult(t), path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "<table") || !strings.Contains(html, "Resilience Score") {
		t.Error("HTML report missing expected sections")
	}
	if strings.Count(html, "<tr>") != 6 { // header plus five projection years
		t.Errorf("row count = %d, want 6", strings.Count(html, "<tr>"))
	}
}

// TestGenerateCSVExport tests writing the spreadsheet export
func TestGenerateCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "projection.csv")
	if err := GenerateCSVExport(offlineResult(t), path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("line count = %d, want header plus five years", len(lines))
	}
	if !strings.HasPrefix(lines[0], "year,revenue,ebitda") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if fields := strings.Split(lines[1], ","); len(fields) != 11 {
		t.Errorf("field count = %d, want 11", len(fields))
	}
}

// TestFormatRatio tests infinite-ratio rendering
func TestFormatRatio(t *testing.T) {
	rows, err := Project(func() ModelParameters {
		p := testParams()
		p.Tranches[0].TenorYears = 2
		p.HorizonYears = 3
		return p
	}())
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}

	if got := formatRatio(rows[2].DSCR); got != "n/a" {
		t.Errorf("formatRatio(+Inf) = %q, want n/a", got)
	}
	if got := csvRatio(rows[2].DSCR); got != "" {
		t.Errorf("csvRatio(+Inf) = %q, want empty", got)
	}
	if got := formatRatio(1.234); got != "1.23" {
		t.Errorf("formatRatio(1.234) = %q, want 1.23", got)
	}
}
