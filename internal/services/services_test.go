package services

import (
	"strings"
	"testing"

	"aerorent-calculator/internal/config"
	"aerorent-calculator/internal/engine"
	"aerorent-calculator/internal/models"
)

func reportConfig() *config.ReportConfig {
	return &config.ReportConfig{
		CompanyName:    "AeroRent",
		CurrencySymbol: "£",
		CurrencyCode:   "GBP",
		CalculatorURL:  "https://calculator.aerorent.co.uk",
	}
}

func evaluatedFixture(t *testing.T) (*engine.Calculator, *models.FinancialResult) {
	t.Helper()

	cfg := models.DefaultConfig()
	calc := engine.New()
	res, err := calc.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return calc, res
}

func TestBuildReport_ContainsItemizedLines(t *testing.T) {
	calc, res := evaluatedFixture(t)

	metrics := calc.Metrics(res, engine.DefaultBaseUtilisationPct)
	vat := calc.VATAnalysis(res.Config, res, engine.DefaultBaseUtilisationPct)
	table := calc.ProjectionTable(res)

	csv := NewCSVService(reportConfig()).BuildReport(res, metrics, vat, table)

	if !strings.HasPrefix(csv, "Category,Parameter,Value,Unit\n") {
		t.Fatalf("missing header row, got %q", csv[:40])
	}

	for _, want := range []string{
		"Fleet,\"DJI Flip units\",3,count",
		"Summary,Break-even utilisation,",
		"Mix,Average rental duration,",
		"VAT,Registration threshold,90000.00,GBP",
		"Metrics,First-year ROI,",
	} {
		if !strings.Contains(csv, want) {
			t.Errorf("CSV missing line containing %q", want)
		}
	}

	// One row per itemized line, none collapsed into aggregates only.
	for _, item := range res.AllLineItems() {
		if !strings.Contains(csv, "\""+item.Name+"\"") {
			t.Errorf("CSV missing itemized line %q", item.Name)
		}
	}
}

func TestBuildReport_UnboundedPaybackIsNever(t *testing.T) {
	calc := engine.New()

	cfg := models.DefaultConfig()
	// Shipping above any tier price forces a negative margin.
	cfg.Variable.ShippingPerRental = 500
	res, err := calc.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	metrics := calc.Metrics(res, engine.DefaultBaseUtilisationPct)
	vat := calc.VATAnalysis(res.Config, res, engine.DefaultBaseUtilisationPct)
	csv := NewCSVService(reportConfig()).BuildReport(res, metrics, vat, calc.ProjectionTable(res))

	if !strings.Contains(csv, "Metrics,Payback period,never,years") {
		t.Error("unbounded payback should export as 'never'")
	}
	if strings.Contains(csv, "+Inf") || strings.Contains(csv, "Inf,") {
		t.Error("infinity sentinel leaked into CSV")
	}
}

func TestGenerateReportPDF_ProducesValidPDF(t *testing.T) {
	calc, res := evaluatedFixture(t)

	data := &ReportData{
		Result:    res,
		Metrics:   calc.Metrics(res, engine.DefaultBaseUtilisationPct),
		VAT:       calc.VATAnalysis(res.Config, res, engine.DefaultBaseUtilisationPct),
		Table:     calc.ProjectionTable(res),
		Breakdown: calc.CostBreakdown(res),
	}

	pdfBytes, err := NewReportService(reportConfig()).GenerateReportPDF(data)
	if err != nil {
		t.Fatalf("GenerateReportPDF: %v", err)
	}
	if len(pdfBytes) < 1000 {
		t.Fatalf("PDF suspiciously small: %d bytes", len(pdfBytes))
	}
	if string(pdfBytes[:4]) != "%PDF" {
		t.Error("output does not start with PDF magic")
	}
}

func TestGenerateReportPDF_NilData(t *testing.T) {
	if _, err := NewReportService(reportConfig()).GenerateReportPDF(nil); err == nil {
		t.Error("expected error for nil report data")
	}
}
