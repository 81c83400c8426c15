package routes

import (
	"time"

	"aerorent-calculator/internal/config"
	"aerorent-calculator/internal/handlers"
	"aerorent-calculator/internal/logger"
	"aerorent-calculator/internal/middleware"
	"aerorent-calculator/internal/monitoring"

	"github.com/gin-gonic/gin"
)

const maxRequestBody = 1 << 20 // configs are small; anything bigger is abuse

const requestsPerMinute = 120

// Setup wires middleware and the API routes onto a gin engine.
func Setup(appCfg *config.Config, log *logger.StructuredLogger) *gin.Engine {
	router := gin.New()

	tracker := monitoring.NewErrorTracker(100)
	router.Use(tracker.ErrorTrackingMiddleware())

	monitor := middleware.NewPerformanceMonitor(500 * time.Millisecond)
	router.Use(middleware.HealthCheckMiddleware(monitor))
	router.Use(monitor.PerformanceMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CompressionMiddleware())
	router.Use(middleware.RateLimitMiddleware(requestsPerMinute))
	router.Use(middleware.RequestSizeLimitMiddleware(maxRequestBody))
	router.Use(log.LoggingMiddleware())

	calculator := handlers.NewCalculatorHandler(appCfg, log)

	api := router.Group("/api/v1")
	{
		api.GET("/config/defaults", calculator.GetDefaults)
		api.POST("/evaluate", calculator.Evaluate)
		api.POST("/projections", calculator.Projections)
		api.POST("/projections/table", calculator.ProjectionTable)
		api.POST("/projections/chart", calculator.ChartSeries)
		api.POST("/metrics", calculator.Metrics)
		api.POST("/vat", calculator.VAT)
		api.POST("/breakdown", calculator.Breakdown)
		api.POST("/export/csv", calculator.ExportCSV)
		api.POST("/export/pdf", calculator.ExportPDF)

		api.GET("/monitoring/errors", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"summary": tracker.GetErrorSummary(),
				"recent":  tracker.GetErrors(20),
			})
		})
		api.GET("/monitoring/performance", func(c *gin.Context) {
			c.JSON(200, monitor.GetMetrics())
		})
	}

	return router
}
