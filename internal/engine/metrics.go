package engine

import (
	"fmt"
	"math"

	"aerorent-calculator/internal/models"
)

// DefaultBaseUtilisationPct is the representative utilisation the investment
// metrics and VAT analysis are anchored to unless the caller overrides it.
const DefaultBaseUtilisationPct = 20.0

// Risk scenario utilisation points.
const (
	worstCaseUtilisation    = 10.0
	expectedCaseUtilisation = 20.0
	bestCaseUtilisation     = 40.0
)

var sensitivityChanges = []float64{5, -5, 10, -10}

// Metrics derives the investment view from repeated projection queries.
// ROI and payback measure return on the total first-year investment and
// therefore include the one-time spend; monthly cash flow answers whether
// operations sustain themselves month to month and excludes it. Both lenses
// are kept as separate, correctly-scoped figures.
func (c *Calculator) Metrics(res *models.FinancialResult, baseUtilisationPct float64) models.BusinessMetrics {
	base := c.ProjectAt(res, baseUtilisationPct)

	return models.BusinessMetrics{
		BaseUtilisationPct: baseUtilisationPct,
		ROIPct:             c.roi(res, base.AnnualProfit),
		Payback:            c.payback(res, base.AnnualProfit),
		MonthlyCashFlow:    base.MonthlyProfit,
		Sensitivity:        c.sensitivity(res, base),
		Risk:               c.riskScenarios(res),
	}
}

func (c *Calculator) roi(res *models.FinancialResult, annualProfit float64) float64 {
	if res.TotalFirstYearCost <= 0 {
		return 0
	}
	return annualProfit / res.TotalFirstYearCost * 100
}

// payback reports the unbounded sentinel when the year's profit cannot
// recover the investment. Never an exception, never silently zero.
func (c *Calculator) payback(res *models.FinancialResult, annualProfit float64) models.Years {
	if annualProfit <= 0 {
		return models.UnboundedYears()
	}
	return models.Years(res.TotalFirstYearCost / annualProfit)
}

// sensitivity perturbs revenue and total operating cost independently from
// the base case. Variable cost is a function of revenue, so the revenue
// scenarios scale it with the scaled revenue; the cost scenarios scale
// opex only.
func (c *Calculator) sensitivity(res *models.FinancialResult, base models.ProjectionPoint) []models.SensitivityScenario {
	scenarios := make([]models.SensitivityScenario, 0, 2*len(sensitivityChanges))

	for _, change := range sensitivityChanges {
		factor := 1 + change/100
		adjusted := base.AnnualRevenue*factor - base.AnnualVariableCosts*factor - res.Opex - res.OneTimeCosts()
		scenarios = append(scenarios, models.SensitivityScenario{
			Name:             fmt.Sprintf("Revenue %+.0f%%", change),
			Lever:            models.LeverRevenue,
			ChangePct:        change,
			AdjustedProfit:   adjusted,
			DeltaFromBasePct: deltaPct(base.AnnualProfit, adjusted),
		})
	}
	for _, change := range sensitivityChanges {
		factor := 1 + change/100
		adjusted := base.AnnualRevenue - base.AnnualVariableCosts - res.Opex*factor - res.OneTimeCosts()
		scenarios = append(scenarios, models.SensitivityScenario{
			Name:             fmt.Sprintf("Operating costs %+.0f%%", change),
			Lever:            models.LeverCost,
			ChangePct:        change,
			AdjustedProfit:   adjusted,
			DeltaFromBasePct: deltaPct(base.AnnualProfit, adjusted),
		})
	}
	return scenarios
}

func (c *Calculator) riskScenarios(res *models.FinancialResult) []models.RiskScenario {
	cases := []struct {
		name        string
		utilisation float64
	}{
		{"Worst case", worstCaseUtilisation},
		{"Expected case", expectedCaseUtilisation},
		{"Best case", bestCaseUtilisation},
	}

	scenarios := make([]models.RiskScenario, 0, len(cases))
	for _, rc := range cases {
		p := c.ProjectAt(res, rc.utilisation)
		scenarios = append(scenarios, models.RiskScenario{
			Name:           rc.name,
			UtilisationPct: rc.utilisation,
			AnnualProfit:   p.AnnualProfit,
			ROIPct:         c.roi(res, p.AnnualProfit),
			Payback:        c.payback(res, p.AnnualProfit),
		})
	}
	return scenarios
}

func deltaPct(base, adjusted float64) float64 {
	if base == 0 {
		return 0
	}
	return (adjusted - base) / math.Abs(base) * 100
}
