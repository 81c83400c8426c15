package handlers

import (
	"errors"
	"net/http"
	"time"

	"aerorent-calculator/internal/config"
	"aerorent-calculator/internal/engine"
	"aerorent-calculator/internal/logger"
	"aerorent-calculator/internal/models"
	"aerorent-calculator/internal/services"

	"github.com/gin-gonic/gin"
)

// CalculatorHandler exposes the projection engine over HTTP. The engine is
// stateless, so every request carries its full configuration.
type CalculatorHandler struct {
	calc   *engine.Calculator
	csv    *services.CSVService
	report *services.ReportService
	appCfg *config.Config
	log    *logger.StructuredLogger
}

func NewCalculatorHandler(appCfg *config.Config, log *logger.StructuredLogger) *CalculatorHandler {
	return &CalculatorHandler{
		calc:   engine.New(),
		csv:    services.NewCSVService(&appCfg.Report),
		report: services.NewReportService(&appCfg.Report),
		appCfg: appCfg,
		log:    log,
	}
}

// GetDefaults returns the shipped starting configuration.
func (h *CalculatorHandler) GetDefaults(c *gin.Context) {
	cfg := models.DefaultConfig()
	cfg.Tax.VATRatePct = h.appCfg.Tax.VATRatePct
	cfg.Tax.RegistrationThreshold = h.appCfg.Tax.RegistrationThreshold

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// Evaluate runs one full calculation pass and returns the derived figures.
func (h *CalculatorHandler) Evaluate(c *gin.Context) {
	res, ok := h.evaluate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, res)
}

// Projections evaluates the engine at caller-chosen utilisation levels.
func (h *CalculatorHandler) Projections(c *gin.Context) {
	var req ProjectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	res, ok := h.evaluateConfig(c, &req.Config)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"points": h.calc.ProjectBatch(res, req.Utilisations),
	})
}

// ProjectionTable returns the standard scenario table with the break-even
// row in place.
func (h *CalculatorHandler) ProjectionTable(c *gin.Context) {
	res, ok := h.evaluate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"annual":  h.calc.ProjectionTable(res),
		"monthly": h.calc.MonthlyTable(res),
	})
}

// ChartSeries returns the dense utilisation sweep used by the profit chart.
func (h *CalculatorHandler) ChartSeries(c *gin.Context) {
	res, ok := h.evaluate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": h.calc.ChartSeries(res)})
}

// Metrics returns ROI, payback, cash flow, sensitivity and risk scenarios.
func (h *CalculatorHandler) Metrics(c *gin.Context) {
	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	res, ok := h.evaluateConfig(c, &req.Config)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.calc.Metrics(res, h.baseUtilisation(req.BaseUtilisationPct)))
}

// VAT returns the VAT position at the base utilisation.
func (h *CalculatorHandler) VAT(c *gin.Context) {
	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	res, ok := h.evaluateConfig(c, &req.Config)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.calc.VATAnalysis(res.Config, res, h.baseUtilisation(req.BaseUtilisationPct)))
}

// Breakdown returns the cost breakdown slices for the pie chart.
func (h *CalculatorHandler) Breakdown(c *gin.Context) {
	res, ok := h.evaluate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"slices": h.calc.CostBreakdown(res)})
}

// ExportCSV streams the full calculation as a CSV attachment.
func (h *CalculatorHandler) ExportCSV(c *gin.Context) {
	res, ok := h.evaluate(c)
	if !ok {
		return
	}

	base := h.baseUtilisation(nil)
	metrics := h.calc.Metrics(res, base)
	vat := h.calc.VATAnalysis(res.Config, res, base)
	csvContent := h.csv.BuildReport(res, metrics, vat, h.calc.ProjectionTable(res))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="projection_`+time.Now().Format("2006-01-02")+`.csv"`)
	c.String(http.StatusOK, csvContent)
}

// ExportPDF streams the full report as a PDF attachment.
func (h *CalculatorHandler) ExportPDF(c *gin.Context) {
	res, ok := h.evaluate(c)
	if !ok {
		return
	}

	base := h.baseUtilisation(nil)
	data := &services.ReportData{
		Result:    res,
		Metrics:   h.calc.Metrics(res, base),
		VAT:       h.calc.VATAnalysis(res.Config, res, base),
		Table:     h.calc.ProjectionTable(res),
		Breakdown: h.calc.CostBreakdown(res),
	}

	pdfBytes, err := h.report.GenerateReportPDF(data)
	if err != nil {
		h.log.Error("PDF generation failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="projection_`+time.Now().Format("2006-01-02")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// evaluate binds an EvaluateRequest and runs the engine on it.
func (h *CalculatorHandler) evaluate(c *gin.Context) (*models.FinancialResult, bool) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}

	return h.evaluateConfig(c, &req.Config)
}

// evaluateConfig runs the engine and maps engine errors to HTTP statuses.
// A mix that fails to sum to 100 is a well-formed but unprocessable input.
func (h *CalculatorHandler) evaluateConfig(c *gin.Context, cfg *models.BusinessConfig) (*models.FinancialResult, bool) {
	h.applyTaxDefaults(cfg)

	start := time.Now()
	res, err := h.calc.Evaluate(cfg)
	if err != nil {
		var mixErr *models.RentalMixError
		if errors.As(err, &mixErr) {
			h.log.LogCalculation("evaluate", time.Since(start), false, map[string]interface{}{
				"mix_total": mixErr.Total,
			})
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     err.Error(),
				"mix_total": mixErr.Total,
			})
			return nil, false
		}

		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	h.log.LogCalculation("evaluate", time.Since(start), true, map[string]interface{}{
		"models": len(cfg.Models),
		"drones": res.TotalDrones,
	})
	return res, true
}

// applyTaxDefaults fills an absent tax block from the server configuration.
// An explicit block is left alone whatever its values: a zero rate is a
// legitimate unregistered-business setting, not a gap to paper over.
func (h *CalculatorHandler) applyTaxDefaults(cfg *models.BusinessConfig) {
	if cfg.Tax == nil {
		cfg.Tax = &models.TaxParams{
			VATRatePct:            h.appCfg.Tax.VATRatePct,
			RegistrationThreshold: h.appCfg.Tax.RegistrationThreshold,
		}
	}
}

func (h *CalculatorHandler) baseUtilisation(override *float64) float64 {
	if override != nil && *override > 0 {
		return *override
	}
	if h.appCfg.Tax.BaseUtilisationPct > 0 {
		return h.appCfg.Tax.BaseUtilisationPct
	}
	return engine.DefaultBaseUtilisationPct
}
