package engine

import (
	"aerorent-calculator/internal/models"
)

// Calibration points the reporting layer renders by default.
var (
	// projectionTableUtilisations is the annual projections table; the
	// computed break-even point is spliced in as its own row.
	projectionTableUtilisations = []float64{20, 30, 40}

	// monthlyTableUtilisations feeds the monthly decomposition table.
	monthlyTableUtilisations = []float64{15, 20, 30}
)

// Chart range for the revenue/profit-vs-utilisation series.
const (
	chartFromPct = 10.0
	chartToPct   = 50.0
	chartStepPct = 5.0
)

// ProjectAt evaluates the business at one utilisation percentage. Pure
// function: callable for arbitrary values including the computed break-even
// point. Out-of-range utilisations pass through unclamped.
//
// AnnualProfit charges the full one-time spend against the year; the monthly
// figures exclude it, since capex is not a recurring cost and folding it in
// would penalize every month twice.
func (c *Calculator) ProjectAt(res *models.FinancialResult, utilisationPct float64) models.ProjectionPoint {
	rentalDays := res.TotalAvailableDays * utilisationPct / 100
	revenue := rentalDays * res.WeightedAvgRevenuePerDay
	variableCosts := rentalDays * res.VariableCostPerRental

	rentalsPerYear := 0.0
	if res.AvgRentalDurationDays > 0 {
		rentalsPerYear = rentalDays / res.AvgRentalDurationDays
	}

	return models.ProjectionPoint{
		UtilisationPct:       utilisationPct,
		RentalDays:           rentalDays,
		RentalsPerYear:       rentalsPerYear,
		RentalsPerMonth:      rentalsPerYear / 12,
		AnnualRevenue:        revenue,
		AnnualVariableCosts:  variableCosts,
		AnnualProfit:         revenue - variableCosts - res.Opex - res.OneTimeCosts(),
		MonthlyRevenue:       revenue / 12,
		MonthlyVariableCosts: variableCosts / 12,
		MonthlyOpex:          res.Opex / 12,
		MonthlyProfit:        (revenue - variableCosts - res.Opex) / 12,
	}
}

// ProjectBatch evaluates an explicit list of utilisation points.
func (c *Calculator) ProjectBatch(res *models.FinancialResult, utilisationPcts []float64) []models.ProjectionPoint {
	points := make([]models.ProjectionPoint, 0, len(utilisationPcts))
	for _, u := range utilisationPcts {
		points = append(points, c.ProjectAt(res, u))
	}
	return points
}

// ProjectionTable returns the annual projections table rows: the fixed
// calibration points with the break-even row inserted in order. The
// break-even row is omitted when the business never breaks even.
func (c *Calculator) ProjectionTable(res *models.FinancialResult) []models.ProjectionPoint {
	utils := make([]float64, 0, len(projectionTableUtilisations)+1)
	inserted := res.BreakEvenUtilisationPct <= 0
	for _, u := range projectionTableUtilisations {
		if !inserted && res.BreakEvenUtilisationPct <= u {
			// A break-even landing exactly on a calibration point is
			// already covered by that row.
			if res.BreakEvenUtilisationPct < u {
				utils = append(utils, res.BreakEvenUtilisationPct)
			}
			inserted = true
		}
		utils = append(utils, u)
	}
	if !inserted {
		utils = append(utils, res.BreakEvenUtilisationPct)
	}
	return c.ProjectBatch(res, utils)
}

// MonthlyTable returns the monthly decomposition rows at the fixed
// calibration points.
func (c *Calculator) MonthlyTable(res *models.FinancialResult) []models.ProjectionPoint {
	return c.ProjectBatch(res, monthlyTableUtilisations)
}

// ChartSeries returns the charting range, 10-50% in 5-point steps.
func (c *Calculator) ChartSeries(res *models.FinancialResult) []models.ProjectionPoint {
	points := make([]models.ProjectionPoint, 0, int((chartToPct-chartFromPct)/chartStepPct)+1)
	for u := chartFromPct; u <= chartToPct; u += chartStepPct {
		points = append(points, c.ProjectAt(res, u))
	}
	return points
}
