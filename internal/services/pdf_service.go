package services

import (
	"bytes"
	"fmt"
	"time"

	"aerorent-calculator/internal/config"
	"aerorent-calculator/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// ReportService renders a full projection report as an A4 PDF.
type ReportService struct {
	report *config.ReportConfig
}

func NewReportService(report *config.ReportConfig) *ReportService {
	return &ReportService{report: report}
}

// ReportData bundles everything one report page set needs.
type ReportData struct {
	Result    *models.FinancialResult
	Metrics   models.BusinessMetrics
	VAT       models.VATResult
	Table     []models.ProjectionPoint
	Breakdown []models.BreakdownSlice
}

// GenerateReportPDF builds the PDF and validates the output before returning it.
func (s *ReportService) GenerateReportPDF(data *ReportData) ([]byte, error) {
	if data == nil || data.Result == nil {
		return nil, fmt.Errorf("report data cannot be nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the translator keeps the pound sign intact.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetMargins(20, 20, 20)

	res := data.Result

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(37, 99, 235)
	pdf.Cell(0, 10, tr(s.report.CompanyName))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 22)
	pdf.Cell(0, 12, "FINANCIAL PROJECTION")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 5, fmt.Sprintf("Generated on %s", time.Now().Format("02.01.2006 15:04")))
	pdf.Ln(10)

	// Key figures in the two-column label/value layout
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(248, 249, 250)

	labelWidth := 70.0
	valueWidth := 50.0

	keyFigure := func(label, value string) {
		pdf.CellFormat(labelWidth, 8, label, "1", 0, "", true, 0, "")
		pdf.CellFormat(valueWidth, 8, value, "1", 1, "R", false, 0, "")
	}

	keyFigure("Fleet size:", fmt.Sprintf("%d drones", res.TotalDrones))
	keyFigure("Equipment & setup investment:", tr(s.money(res.Capex)))
	keyFigure("Annual operating costs:", tr(s.money(res.Opex)))
	if res.AdditionalCosts > 0 {
		keyFigure("Additional one-time costs:", tr(s.money(res.AdditionalCosts)))
	}
	keyFigure("Total first year cost:", tr(s.money(res.TotalFirstYearCost)))
	keyFigure("Avg revenue per rental day:", tr(s.money(res.WeightedAvgRevenuePerDay)))
	keyFigure("Contribution margin per day:", tr(s.money(res.ContributionMarginPerDay)))
	keyFigure("Break-even rental days:", fmt.Sprintf("%.1f days", res.BreakEvenDays))
	keyFigure("Break-even utilisation:", fmt.Sprintf("%.1f%%", res.BreakEvenUtilisationPct))
	keyFigure("First-year ROI:", fmt.Sprintf("%.1f%%", data.Metrics.ROIPct))
	keyFigure("Payback period:", s.years(data.Metrics.Payback))
	keyFigure("Monthly cash flow:", tr(s.money(data.Metrics.MonthlyCashFlow)))
	pdf.Ln(8)

	// Projection table
	s.sectionTitle(pdf, "Profit Projections")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(37, 99, 235)

	pdf.CellFormat(28, 9, "Utilisation", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 9, "Rental days", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 9, "Annual revenue", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 9, "Annual profit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 9, "Monthly profit", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(248, 249, 250)

	fill := false
	for _, p := range data.Table {
		pdf.CellFormat(28, 7, fmt.Sprintf("%.1f%%", p.UtilisationPct), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(28, 7, fmt.Sprintf("%.0f", p.RentalDays), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(38, 7, tr(s.money(p.AnnualRevenue)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(38, 7, tr(s.money(p.AnnualProfit)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(38, 7, tr(s.money(p.MonthlyProfit)), "1", 1, "R", fill, 0, "")
		fill = !fill
	}
	pdf.Ln(8)

	// Sensitivity table
	s.sectionTitle(pdf, "Sensitivity Analysis")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(37, 99, 235)
	pdf.CellFormat(70, 9, "Scenario", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 9, "Annual profit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 9, "vs base case", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(248, 249, 250)
	fill = false
	for _, sc := range data.Metrics.Sensitivity {
		pdf.CellFormat(70, 7, sc.Name, "1", 0, "", fill, 0, "")
		pdf.CellFormat(50, 7, tr(s.money(sc.AdjustedProfit)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%+.1f%%", sc.DeltaFromBasePct), "1", 1, "R", fill, 0, "")
		fill = !fill
	}
	pdf.Ln(8)

	// Risk table
	s.sectionTitle(pdf, "Risk Scenarios")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(37, 99, 235)
	pdf.CellFormat(45, 9, "Scenario", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 9, "Utilisation", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 9, "Annual profit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 9, "ROI", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 9, "Payback", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(248, 249, 250)
	fill = false
	for _, rs := range data.Metrics.Risk {
		pdf.CellFormat(45, 7, rs.Name, "1", 0, "", fill, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.0f%%", rs.UtilisationPct), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(40, 7, tr(s.money(rs.AnnualProfit)), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f%%", rs.ROIPct), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(30, 7, s.years(rs.Payback), "1", 1, "R", fill, 0, "")
		fill = !fill
	}

	// VAT and cost breakdown on a fresh page
	pdf.AddPage()
	s.sectionTitle(pdf, fmt.Sprintf("VAT Position (%.0f%% rate)", data.VAT.RatePct))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(248, 249, 250)
	keyFigure("Annual revenue:", tr(s.money(data.VAT.AnnualRevenue)))
	keyFigure("VAT on revenue:", tr(s.money(data.VAT.RevenueVAT)))
	keyFigure("Deductible input VAT:", tr(s.money(data.VAT.DeductibleVAT)))
	keyFigure("Net VAT payable:", tr(s.money(data.VAT.NetPayable)))
	keyFigure("Profit before VAT:", tr(s.money(data.VAT.ProfitBeforeVAT)))
	keyFigure("Profit after VAT:", tr(s.money(data.VAT.ProfitAfterVAT)))
	keyFigure("Registration threshold:", tr(s.money(data.VAT.RegistrationThreshold)))
	if data.VAT.AboveThreshold {
		keyFigure("Registration required:", "Yes")
	} else {
		keyFigure("Registration required:", "No")
		keyFigure("Months to threshold:", s.months(data.VAT.MonthsToThreshold))
	}
	pdf.Ln(8)

	s.sectionTitle(pdf, "Cost Breakdown")

	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(37, 99, 235)
	pdf.CellFormat(100, 9, "Cost block", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 9, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(248, 249, 250)
	fill = false
	total := 0.0
	for _, slice := range data.Breakdown {
		pdf.CellFormat(100, 7, tr(slice.Label), "1", 0, "", fill, 0, "")
		pdf.CellFormat(50, 7, tr(s.money(slice.Amount)), "1", 1, "R", fill, 0, "")
		total += slice.Amount
		fill = !fill
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(37, 99, 235)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(100, 9, "TOTAL:", "1", 0, "R", true, 0, "")
	pdf.CellFormat(50, 9, tr(s.money(total)), "1", 1, "R", true, 0, "")

	if err := s.addQRFooter(pdf); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %v", err)
	}

	pdfBytes := buf.Bytes()
	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return nil, fmt.Errorf("gofpdf did not generate valid PDF content")
	}

	return pdfBytes, nil
}

// addQRFooter puts a QR code back to the online calculator at the bottom of
// the current page.
func (s *ReportService) addQRFooter(pdf *gofpdf.Fpdf) error {
	url := s.report.CalculatorURL
	if url == "" {
		return nil
	}

	pngBytes, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %v", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("calculator-qr", opts, bytes.NewReader(pngBytes))
	pdf.ImageOptions("calculator-qr", 20, 255, 22, 22, false, opts, 0, "")

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(45, 264)
	pdf.Cell(0, 5, "Scan to open the interactive calculator: "+url)

	return nil
}

func (s *ReportService) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(37, 99, 235)
	pdf.Cell(0, 8, title)
	pdf.Ln(10)
}

func (s *ReportService) money(v float64) string {
	return fmt.Sprintf("%s%.2f", s.report.CurrencySymbol, v)
}

func (s *ReportService) years(y models.Years) string {
	if y.IsUnbounded() {
		return "never"
	}
	return fmt.Sprintf("%.1f years", float64(y))
}

func (s *ReportService) months(m models.Months) string {
	if m.IsUnbounded() {
		return "never"
	}
	return fmt.Sprintf("%.1f months", float64(m))
}
