package engine

import (
	"fmt"

	"aerorent-calculator/internal/models"
)

// DaysPerYear is the availability horizon per drone.
const DaysPerYear = 365.0

// Calculator turns a BusinessConfig snapshot into financial results,
// projections, investment metrics and a VAT analysis. It holds no state
// across calls; every computation is a pure function of its inputs.
type Calculator struct{}

func New() *Calculator {
	return &Calculator{}
}

// Evaluate computes the full first-year cost structure, the mix-weighted
// revenue model and the break-even point for one configuration snapshot.
// It refuses to compute anything when the rental mix does not sum to 100;
// that is the single hard precondition enforced here. All other numeric
// validation (non-negative amounts, mix fields bounded 0-100) belongs to
// the input collaborator.
func (c *Calculator) Evaluate(cfg *models.BusinessConfig) (*models.FinancialResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("business config cannot be nil")
	}
	if err := cfg.Mix.Validate(); err != nil {
		return nil, err
	}

	totalDrones := cfg.TotalDrones()

	capexItems := make([]models.LineItem, 0, len(cfg.Models)+len(cfg.Accessories)+len(cfg.Setup))
	for _, m := range cfg.Models {
		capexItems = append(capexItems, models.LineItem{
			Category: models.CategoryEquipment,
			Name:     m.Name,
			Amount:   float64(m.Quantity) * m.UnitCost,
			Unit:     "GBP",
		})
	}
	for _, a := range cfg.Accessories {
		amount := a.Amount
		if a.PerUnit {
			amount = a.Amount * float64(totalDrones)
		}
		capexItems = append(capexItems, models.LineItem{
			Category: models.CategoryAccessories,
			Name:     a.Name,
			Amount:   amount,
			Unit:     "GBP",
		})
	}
	for _, s := range cfg.Setup {
		capexItems = append(capexItems, models.LineItem{
			Category: models.CategorySetup,
			Name:     s.Name,
			Amount:   s.Amount,
			Unit:     "GBP",
		})
	}

	opexItems := make([]models.LineItem, 0, len(cfg.Operational))
	for _, o := range cfg.Operational {
		opexItems = append(opexItems, models.LineItem{
			Category: models.CategoryOperational,
			Name:     o.Name,
			Amount:   o.Amount,
			Unit:     "GBP/year",
		})
	}

	additionalItems := make([]models.LineItem, 0, len(cfg.AdditionalCosts))
	for i, a := range cfg.AdditionalCosts {
		name := a.Note
		if name == "" {
			name = fmt.Sprintf("Additional cost %d", i+1)
		}
		additionalItems = append(additionalItems, models.LineItem{
			Category: models.CategoryAdditional,
			Name:     name,
			Amount:   a.Amount,
			Unit:     "GBP",
		})
	}

	capex := sumItems(capexItems)
	opex := sumItems(opexItems)
	additional := sumItems(additionalItems)
	totalFirstYear := capex + opex + additional

	// Fleet-weighted revenue per rental day. Explicit zero branch: an empty
	// fleet earns nothing rather than dividing by zero.
	weightedRevenue := 0.0
	if totalDrones > 0 {
		for _, m := range cfg.Models {
			weightedRevenue += m.AverageRevenuePerDay(cfg.Mix) * float64(m.Quantity) / float64(totalDrones)
		}
	}

	processingCost := weightedRevenue * cfg.Variable.ProcessingFeePct / 100
	variableCost := cfg.Variable.ShippingPerRental + cfg.Variable.PackagingPerRental + processingCost
	margin := weightedRevenue - variableCost

	// A non-positive margin means the business never breaks even; the
	// break-even figures use 0 as that sentinel.
	breakEvenDays := 0.0
	if margin > 0 {
		breakEvenDays = totalFirstYear / margin
	}

	availableDays := float64(totalDrones) * DaysPerYear
	breakEvenUtilisation := 0.0
	if availableDays > 0 {
		breakEvenUtilisation = breakEvenDays / availableDays * 100
	}

	return &models.FinancialResult{
		Capex:                    capex,
		Opex:                     opex,
		AdditionalCosts:          additional,
		TotalFirstYearCost:       totalFirstYear,
		WeightedAvgRevenuePerDay: weightedRevenue,
		VariableCostPerRental:    variableCost,
		ContributionMarginPerDay: margin,
		BreakEvenDays:            breakEvenDays,
		BreakEvenUtilisationPct:  breakEvenUtilisation,
		TotalDrones:              totalDrones,
		TotalAvailableDays:       availableDays,
		AvgRentalDurationDays:    cfg.Mix.AverageRentalDays(),
		CapexItems:               capexItems,
		OpexItems:                opexItems,
		AdditionalItems:          additionalItems,
		Config:                   cfg,
	}, nil
}

// CostBreakdown aggregates the line items into chart slices: one per drone
// model, then accessories, setup, annual opex and ad-hoc costs.
func (c *Calculator) CostBreakdown(res *models.FinancialResult) []models.BreakdownSlice {
	slices := make([]models.BreakdownSlice, 0, len(res.CapexItems)+3)

	accessories := 0.0
	setup := 0.0
	for _, item := range res.CapexItems {
		switch item.Category {
		case models.CategoryEquipment:
			slices = append(slices, models.BreakdownSlice{Label: item.Name, Amount: item.Amount})
		case models.CategoryAccessories:
			accessories += item.Amount
		case models.CategorySetup:
			setup += item.Amount
		}
	}

	slices = append(slices,
		models.BreakdownSlice{Label: "Accessories", Amount: accessories},
		models.BreakdownSlice{Label: "Website & legal", Amount: setup},
		models.BreakdownSlice{Label: "Annual operating costs", Amount: res.Opex},
	)
	if res.AdditionalCosts > 0 {
		slices = append(slices, models.BreakdownSlice{Label: "Additional costs", Amount: res.AdditionalCosts})
	}
	return slices
}

func sumItems(items []models.LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Amount
	}
	return total
}
