package services

import (
	"fmt"

	"aerorent-calculator/internal/config"
	"aerorent-calculator/internal/models"
)

// CSVService renders a full calculation as a flat Category,Parameter,Value,Unit
// sheet. Everything the engine derives is written out so the sheet stands on
// its own without the app.
type CSVService struct {
	report *config.ReportConfig
}

func NewCSVService(report *config.ReportConfig) *CSVService {
	return &CSVService{report: report}
}

// BuildReport generates the CSV content for one evaluated configuration.
func (s *CSVService) BuildReport(res *models.FinancialResult, metrics models.BusinessMetrics, vat models.VATResult, table []models.ProjectionPoint) string {
	cur := s.report.CurrencyCode
	cfg := res.Config

	csvContent := "Category,Parameter,Value,Unit\n"

	// Fleet inputs
	for _, m := range cfg.Models {
		csvContent += fmt.Sprintf("Fleet,\"%s units\",%d,count\n", m.Name, m.Quantity)
		csvContent += fmt.Sprintf("Fleet,\"%s unit cost\",%.2f,%s\n", m.Name, m.UnitCost, cur)
		csvContent += fmt.Sprintf("Fleet,\"%s daily price\",%.2f,%s\n", m.Name, m.Pricing.Daily, cur)
		csvContent += fmt.Sprintf("Fleet,\"%s weekend price\",%.2f,%s\n", m.Name, m.Pricing.Weekend, cur)
		csvContent += fmt.Sprintf("Fleet,\"%s weekly price\",%.2f,%s\n", m.Name, m.Pricing.Weekly, cur)
	}
	csvContent += fmt.Sprintf("Fleet,Total drones,%d,count\n", res.TotalDrones)

	// Rental mix assumptions
	csvContent += fmt.Sprintf("Mix,Daily rentals,%.1f,%%\n", cfg.Mix.Daily)
	csvContent += fmt.Sprintf("Mix,Weekend rentals,%.1f,%%\n", cfg.Mix.Weekend)
	csvContent += fmt.Sprintf("Mix,Weekly rentals,%.1f,%%\n", cfg.Mix.Weekly)
	csvContent += fmt.Sprintf("Mix,Average rental duration,%.2f,days\n", res.AvgRentalDurationDays)

	// Itemized cost lines, exactly as the engine aggregated them
	for _, item := range res.AllLineItems() {
		csvContent += fmt.Sprintf("%s,\"%s\",%.2f,%s\n", categoryLabel(item.Category), item.Name, item.Amount, cur)
	}

	// Variable cost parameters
	csvContent += fmt.Sprintf("Variable,Shipping per rental,%.2f,%s\n", cfg.Variable.ShippingPerRental, cur)
	csvContent += fmt.Sprintf("Variable,Packaging per rental,%.2f,%s\n", cfg.Variable.PackagingPerRental, cur)
	csvContent += fmt.Sprintf("Variable,Payment processing fee,%.2f,%%\n", cfg.Variable.ProcessingFeePct)

	// Derived figures
	csvContent += fmt.Sprintf("Summary,Equipment and setup investment,%.2f,%s\n", res.Capex, cur)
	csvContent += fmt.Sprintf("Summary,Annual operating costs,%.2f,%s\n", res.Opex, cur)
	if res.AdditionalCosts > 0 {
		csvContent += fmt.Sprintf("Summary,Additional one-time costs,%.2f,%s\n", res.AdditionalCosts, cur)
	}
	csvContent += fmt.Sprintf("Summary,Total first year cost,%.2f,%s\n", res.TotalFirstYearCost, cur)
	csvContent += fmt.Sprintf("Summary,Weighted avg revenue per rental day,%.2f,%s\n", res.WeightedAvgRevenuePerDay, cur)
	csvContent += fmt.Sprintf("Summary,Variable cost per rental day,%.2f,%s\n", res.VariableCostPerRental, cur)
	csvContent += fmt.Sprintf("Summary,Contribution margin per rental day,%.2f,%s\n", res.ContributionMarginPerDay, cur)
	csvContent += fmt.Sprintf("Summary,Break-even rental days,%.1f,days\n", res.BreakEvenDays)
	csvContent += fmt.Sprintf("Summary,Break-even utilisation,%.1f,%%\n", res.BreakEvenUtilisationPct)

	// Projection table
	for _, p := range table {
		label := fmt.Sprintf("%.1f%%", p.UtilisationPct)
		csvContent += fmt.Sprintf("Projection,\"Annual revenue at %s\",%.2f,%s\n", label, p.AnnualRevenue, cur)
		csvContent += fmt.Sprintf("Projection,\"Annual profit at %s\",%.2f,%s\n", label, p.AnnualProfit, cur)
		csvContent += fmt.Sprintf("Projection,\"Monthly profit at %s\",%.2f,%s\n", label, p.MonthlyProfit, cur)
	}

	// Investment metrics
	csvContent += fmt.Sprintf("Metrics,Base utilisation,%.1f,%%\n", metrics.BaseUtilisationPct)
	csvContent += fmt.Sprintf("Metrics,First-year ROI,%.1f,%%\n", metrics.ROIPct)
	csvContent += fmt.Sprintf("Metrics,Payback period,%s,years\n", csvYears(metrics.Payback))
	csvContent += fmt.Sprintf("Metrics,Monthly cash flow,%.2f,%s\n", metrics.MonthlyCashFlow, cur)
	for _, sc := range metrics.Sensitivity {
		csvContent += fmt.Sprintf("Sensitivity,\"%s\",%.2f,%s\n", sc.Name, sc.AdjustedProfit, cur)
	}
	for _, rs := range metrics.Risk {
		csvContent += fmt.Sprintf("Risk,\"%s annual profit\",%.2f,%s\n", rs.Name, rs.AnnualProfit, cur)
		csvContent += fmt.Sprintf("Risk,\"%s ROI\",%.1f,%%\n", rs.Name, rs.ROIPct)
	}

	// VAT position
	csvContent += fmt.Sprintf("VAT,Rate,%.1f,%%\n", vat.RatePct)
	csvContent += fmt.Sprintf("VAT,VAT on revenue,%.2f,%s\n", vat.RevenueVAT, cur)
	csvContent += fmt.Sprintf("VAT,Deductible input VAT,%.2f,%s\n", vat.DeductibleVAT, cur)
	csvContent += fmt.Sprintf("VAT,Net VAT payable,%.2f,%s\n", vat.NetPayable, cur)
	csvContent += fmt.Sprintf("VAT,Profit after VAT,%.2f,%s\n", vat.ProfitAfterVAT, cur)
	csvContent += fmt.Sprintf("VAT,Registration threshold,%.2f,%s\n", vat.RegistrationThreshold, cur)
	csvContent += fmt.Sprintf("VAT,Above registration threshold,%t,\n", vat.AboveThreshold)
	csvContent += fmt.Sprintf("VAT,Months to threshold,%s,months\n", csvMonths(vat.MonthsToThreshold))

	return csvContent
}

// csvYears keeps the unbounded sentinel out of numeric cells.
func csvYears(y models.Years) string {
	if y.IsUnbounded() {
		return "never"
	}
	return fmt.Sprintf("%.2f", float64(y))
}

func csvMonths(m models.Months) string {
	if m.IsUnbounded() {
		return "never"
	}
	return fmt.Sprintf("%.1f", float64(m))
}

func categoryLabel(category string) string {
	switch category {
	case models.CategoryEquipment:
		return "Equipment"
	case models.CategoryAccessories:
		return "Accessories"
	case models.CategorySetup:
		return "Setup"
	case models.CategoryOperational:
		return "Operating"
	case models.CategoryAdditional:
		return "Additional"
	default:
		return "Other"
	}
}
