package engine

import (
	"aerorent-calculator/internal/models"
)

// VATAnalysis computes the VAT position at one representative utilisation.
// Output VAT is charged on annual revenue; input VAT is reclaimed line by
// line across every capex, opex and additional cost item. NetPayable is
// never clamped: a negative value is a genuine refund position.
func (c *Calculator) VATAnalysis(cfg *models.BusinessConfig, res *models.FinancialResult, baseUtilisationPct float64) models.VATResult {
	tax := cfg.Tax
	if tax == nil {
		// No tax block means an unregistered business with no threshold.
		tax = &models.TaxParams{}
	}

	rate := tax.VATRatePct / 100
	base := c.ProjectAt(res, baseUtilisationPct)

	revenueVAT := base.AnnualRevenue * rate

	deductibleVAT := 0.0
	for _, item := range res.AllLineItems() {
		deductibleVAT += item.Amount * rate
	}

	netPayable := revenueVAT - deductibleVAT

	threshold := tax.RegistrationThreshold
	monthsToThreshold := models.UnboundedMonths()
	if base.AnnualRevenue > 0 {
		monthsToThreshold = models.Months(threshold / base.AnnualRevenue * 12)
	}

	return models.VATResult{
		RatePct:               tax.VATRatePct,
		BaseUtilisationPct:    baseUtilisationPct,
		AnnualRevenue:         base.AnnualRevenue,
		RevenueVAT:            revenueVAT,
		DeductibleVAT:         deductibleVAT,
		NetPayable:            netPayable,
		ProfitBeforeVAT:       base.AnnualProfit,
		ProfitAfterVAT:        base.AnnualProfit - netPayable,
		RegistrationThreshold: threshold,
		AboveThreshold:        base.AnnualRevenue >= threshold,
		MonthsToThreshold:     monthsToThreshold,
	}
}
