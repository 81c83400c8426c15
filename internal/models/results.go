package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Line item categories used across capex/opex aggregation and export.
const (
	CategoryEquipment   = "equipment"
	CategoryAccessories = "accessories"
	CategorySetup       = "setup"
	CategoryOperational = "operational"
	CategoryAdditional  = "additional"
)

// LineItem is one itemized cost line. The engine exposes every line used in
// its aggregates individually so exports can itemize rather than re-derive.
type LineItem struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
}

// FinancialResult is derived wholesale from a BusinessConfig on every
// evaluation. It is never mutated in place.
type FinancialResult struct {
	Capex                    float64 `json:"capex"`
	Opex                     float64 `json:"opex"`
	AdditionalCosts          float64 `json:"additional_costs"`
	TotalFirstYearCost       float64 `json:"total_first_year_cost"`
	WeightedAvgRevenuePerDay float64 `json:"weighted_avg_revenue_per_day"`
	VariableCostPerRental    float64 `json:"variable_cost_per_rental"`
	ContributionMarginPerDay float64 `json:"contribution_margin_per_day"`
	BreakEvenDays            float64 `json:"break_even_days"`
	BreakEvenUtilisationPct  float64 `json:"break_even_utilisation_pct"`
	TotalDrones              int     `json:"total_drones"`
	TotalAvailableDays       float64 `json:"total_available_days"`
	AvgRentalDurationDays    float64 `json:"avg_rental_duration_days"`

	CapexItems      []LineItem `json:"capex_items"`
	OpexItems       []LineItem `json:"opex_items"`
	AdditionalItems []LineItem `json:"additional_items"`

	// Config is the snapshot this result was derived from.
	Config *BusinessConfig `json:"-"`
}

// OneTimeCosts is the full one-time spend: equipment capex plus ad-hoc costs.
func (r *FinancialResult) OneTimeCosts() float64 {
	return r.Capex + r.AdditionalCosts
}

// AllLineItems returns every capex, opex and additional line in export order.
func (r *FinancialResult) AllLineItems() []LineItem {
	items := make([]LineItem, 0, len(r.CapexItems)+len(r.OpexItems)+len(r.AdditionalItems))
	items = append(items, r.CapexItems...)
	items = append(items, r.OpexItems...)
	items = append(items, r.AdditionalItems...)
	return items
}

// ProjectionPoint is the engine evaluated at one utilisation percentage.
// AnnualProfit carries the one-time spend; the monthly figures deliberately
// exclude it, keeping the investment and operating lenses separate.
type ProjectionPoint struct {
	UtilisationPct       float64 `json:"utilisation_pct"`
	RentalDays           float64 `json:"rental_days"`
	RentalsPerYear       float64 `json:"rentals_per_year"`
	RentalsPerMonth      float64 `json:"rentals_per_month"`
	AnnualRevenue        float64 `json:"annual_revenue"`
	AnnualVariableCosts  float64 `json:"annual_variable_costs"`
	AnnualProfit         float64 `json:"annual_profit"`
	MonthlyRevenue       float64 `json:"monthly_revenue"`
	MonthlyVariableCosts float64 `json:"monthly_variable_costs"`
	MonthlyOpex          float64 `json:"monthly_opex"`
	MonthlyProfit        float64 `json:"monthly_profit"`
}

// Years is a payback-style duration. The unbounded value (profit never
// recovers the investment) is +Inf; it marshals as JSON null and formats
// as the infinity sign.
type Years float64

// UnboundedYears is the sentinel for "never pays back".
func UnboundedYears() Years {
	return Years(math.Inf(1))
}

func (y Years) IsUnbounded() bool {
	return math.IsInf(float64(y), 1)
}

func (y Years) MarshalJSON() ([]byte, error) {
	if y.IsUnbounded() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(y))
}

func (y Years) String() string {
	if y.IsUnbounded() {
		return "∞"
	}
	return fmt.Sprintf("%.1f years", float64(y))
}

// Months mirrors Years for month-denominated durations.
type Months float64

func UnboundedMonths() Months {
	return Months(math.Inf(1))
}

func (m Months) IsUnbounded() bool {
	return math.IsInf(float64(m), 1)
}

func (m Months) MarshalJSON() ([]byte, error) {
	if m.IsUnbounded() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

func (m Months) String() string {
	if m.IsUnbounded() {
		return "∞"
	}
	return fmt.Sprintf("%.1f months", float64(m))
}

// Sensitivity levers.
const (
	LeverRevenue = "revenue"
	LeverCost    = "cost"
)

// SensitivityScenario perturbs one lever from the base case. Revenue
// scenarios scale variable costs with the scaled revenue; cost scenarios
// scale opex only.
type SensitivityScenario struct {
	Name             string  `json:"name"`
	Lever            string  `json:"lever"`
	ChangePct        float64 `json:"change_pct"`
	AdjustedProfit   float64 `json:"adjusted_profit"`
	DeltaFromBasePct float64 `json:"delta_from_base_pct"`
}

// RiskScenario is one named utilisation point with the full investment view.
type RiskScenario struct {
	Name           string  `json:"name"`
	UtilisationPct float64 `json:"utilisation_pct"`
	AnnualProfit   float64 `json:"annual_profit"`
	ROIPct         float64 `json:"roi_pct"`
	Payback        Years   `json:"payback_years"`
}

// BusinessMetrics is the investment view at a base utilisation. ROI and
// payback include the one-time spend; monthly cash flow excludes it.
type BusinessMetrics struct {
	BaseUtilisationPct float64               `json:"base_utilisation_pct"`
	ROIPct             float64               `json:"roi_pct"`
	Payback            Years                 `json:"payback_years"`
	MonthlyCashFlow    float64               `json:"monthly_cash_flow"`
	Sensitivity        []SensitivityScenario `json:"sensitivity"`
	Risk               []RiskScenario        `json:"risk"`
}

// VATResult is the VAT position at one representative utilisation.
// NetPayable may be negative, meaning a refund position.
type VATResult struct {
	RatePct               float64 `json:"rate_pct"`
	BaseUtilisationPct    float64 `json:"base_utilisation_pct"`
	AnnualRevenue         float64 `json:"annual_revenue"`
	RevenueVAT            float64 `json:"revenue_vat"`
	DeductibleVAT         float64 `json:"deductible_vat"`
	NetPayable            float64 `json:"net_payable"`
	ProfitBeforeVAT       float64 `json:"profit_before_vat"`
	ProfitAfterVAT        float64 `json:"profit_after_vat"`
	RegistrationThreshold float64 `json:"registration_threshold"`
	AboveThreshold        bool    `json:"above_threshold"`
	MonthsToThreshold     Months  `json:"months_to_threshold"`
}

// BreakdownSlice is one slice of the cost breakdown chart.
type BreakdownSlice struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}
