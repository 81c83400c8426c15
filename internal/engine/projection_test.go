package engine_test

import (
	"math"
	"testing"

	"aerorent-calculator/internal/engine"
	"aerorent-calculator/internal/models"
)

func TestProjectAt_BreakEvenConsistency(t *testing.T) {
	calc := engine.New()
	res, err := calc.Evaluate(testConfig())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.ContributionMarginPerDay <= 0 {
		t.Fatal("test config must have a positive contribution margin")
	}

	// At the computed break-even point the year's revenue recovers variable
	// costs, opex and the one-time spend exactly.
	p := calc.ProjectAt(res, res.BreakEvenUtilisationPct)
	if math.Abs(p.AnnualProfit) > 0.01 {
		t.Errorf("profit at break-even: got %v, exp ~0", p.AnnualProfit)
	}
}

func TestProjectAt_Monotonic(t *testing.T) {
	calc := engine.New()
	res, err := calc.Evaluate(testConfig())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	prev := calc.ProjectAt(res, 5)
	for u := 10.0; u <= 60; u += 5 {
		p := calc.ProjectAt(res, u)
		if p.AnnualProfit <= prev.AnnualProfit {
			t.Errorf("profit not increasing: %v%% -> %v, %v%% -> %v",
				prev.UtilisationPct, prev.AnnualProfit, u, p.AnnualProfit)
		}
		prev = p
	}
}

func TestProjectAt_MonthlyExcludesOneTimeSpend(t *testing.T) {
	calc := engine.New()
	res, err := calc.Evaluate(testConfig())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	p := calc.ProjectAt(res, 20)

	expAnnual := p.AnnualRevenue - p.AnnualVariableCosts - res.Opex - res.Capex - res.AdditionalCosts
	if math.Abs(p.AnnualProfit-expAnnual) > 1e-9 {
		t.Errorf("annual profit: got %v, exp %v", p.AnnualProfit, expAnnual)
	}

	expMonthly := (p.AnnualRevenue - p.AnnualVariableCosts - res.Opex) / 12
	if math.Abs(p.MonthlyProfit-expMonthly) > 1e-9 {
		t.Errorf("monthly profit: got %v, exp %v", p.MonthlyProfit, expMonthly)
	}

	// The two lenses differ by exactly the one-time spend spread over a year.
	gap := p.MonthlyProfit*12 - p.AnnualProfit
	if math.Abs(gap-res.OneTimeCosts()) > 1e-9 {
		t.Errorf("annual/monthly gap: got %v, exp %v", gap, res.OneTimeCosts())
	}
}

func TestProjectAt_RentalCountFromLiveMix(t *testing.T) {
	calc := engine.New()

	cfg := testConfig()
	res, err := calc.Evaluate(cfg)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// mix 20/60/20: average rental is 2.8 days
	p := calc.ProjectAt(res, 20)
	expRentals := p.RentalDays / 2.8
	if math.Abs(p.RentalsPerYear-expRentals) > 1e-9 {
		t.Errorf("rentals per year: got %v, exp %v", p.RentalsPerYear, expRentals)
	}
	if math.Abs(p.RentalsPerMonth-expRentals/12) > 1e-9 {
		t.Errorf("rentals per month: got %v, exp %v", p.RentalsPerMonth, expRentals/12)
	}

	// The duration must follow an edited mix, not the default split.
	cfg2 := testConfig()
	cfg2.Mix.Daily, cfg2.Mix.Weekend, cfg2.Mix.Weekly = 100, 0, 0
	res2, err := calc.Evaluate(cfg2)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if math.Abs(res2.AvgRentalDurationDays-1.0) > 1e-9 {
		t.Errorf("all-daily mix duration: got %v, exp 1.0", res2.AvgRentalDurationDays)
	}
}

func TestProjectionTable_IncludesBreakEvenRow(t *testing.T) {
	calc := engine.New()
	res, err := calc.Evaluate(testConfig())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	rows := calc.ProjectionTable(res)
	if len(rows) != 4 {
		t.Fatalf("table rows: got %d, exp 4", len(rows))
	}

	found := false
	for i, row := range rows {
		if row.UtilisationPct == res.BreakEvenUtilisationPct {
			found = true
		}
		if i > 0 && row.UtilisationPct < rows[i-1].UtilisationPct {
			t.Errorf("table rows out of order at %d: %v after %v",
				i, row.UtilisationPct, rows[i-1].UtilisationPct)
		}
	}
	if !found {
		t.Errorf("break-even row %v%% missing from table", res.BreakEvenUtilisationPct)
	}
}

func TestProjectionTable_BreakEvenOnCalibrationPoint(t *testing.T) {
	calc := engine.New()

	// A break-even landing exactly on a calibration point must not gain a
	// second row for the same utilisation.
	res := &models.FinancialResult{
		Capex:                    4000,
		Opex:                     5000,
		WeightedAvgRevenuePerDay: 100,
		VariableCostPerRental:    30,
		ContributionMarginPerDay: 85,
		BreakEvenUtilisationPct:  30,
		TotalDrones:              4,
		TotalAvailableDays:       1460,
		AvgRentalDurationDays:    2.8,
	}

	rows := calc.ProjectionTable(res)
	if len(rows) != 3 {
		t.Fatalf("table rows: got %d, exp 3", len(rows))
	}

	for i, row := range rows {
		if i > 0 && row.UtilisationPct <= rows[i-1].UtilisationPct {
			t.Errorf("table rows not strictly ascending at %d: %v after %v",
				i, row.UtilisationPct, rows[i-1].UtilisationPct)
		}
	}
	if rows[1].UtilisationPct != 30 {
		t.Errorf("middle row: got %v%%, exp 30%%", rows[1].UtilisationPct)
	}
}

func TestChartSeries_Range(t *testing.T) {
	calc := engine.New()
	res, err := calc.Evaluate(testConfig())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	series := calc.ChartSeries(res)
	if len(series) != 9 {
		t.Fatalf("chart points: got %d, exp 9", len(series))
	}
	if series[0].UtilisationPct != 10 || series[len(series)-1].UtilisationPct != 50 {
		t.Errorf("chart range: got %v..%v, exp 10..50",
			series[0].UtilisationPct, series[len(series)-1].UtilisationPct)
	}
}
