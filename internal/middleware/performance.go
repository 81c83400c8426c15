package middleware

import (
	"compress/gzip"
	"fmt"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// PerformanceMetrics stores request performance metrics
type PerformanceMetrics struct {
	RequestCount    int64            `json:"request_count"`
	AverageResponse time.Duration    `json:"average_response"`
	ErrorRate       float64          `json:"error_rate"`
	MemoryUsage     MemoryStats      `json:"memory_usage"`
	EndpointStats   map[string]Stats `json:"endpoint_stats"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated    uint64 `json:"allocated"`
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	GCRuns       uint32 `json:"gc_runs"`
	HeapInUse    uint64 `json:"heap_in_use"`
	HeapReleased uint64 `json:"heap_released"`
}

// Stats represents endpoint-specific statistics
type Stats struct {
	Count         int64         `json:"count"`
	TotalDuration time.Duration `json:"total_duration"`
	AverageTime   time.Duration `json:"average_time"`
	ErrorCount    int64         `json:"error_count"`
	SlowCount     int64         `json:"slow_count"`
}

// PerformanceMonitor tracks application performance. Requests are served
// concurrently, so every access to the metrics goes through the mutex.
type PerformanceMonitor struct {
	metrics       *PerformanceMetrics
	slowThreshold time.Duration
	startTime     time.Time
	mutex         sync.RWMutex
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor(slowThreshold time.Duration) *PerformanceMonitor {
	return &PerformanceMonitor{
		metrics: &PerformanceMetrics{
			EndpointStats: make(map[string]Stats),
		},
		slowThreshold: slowThreshold,
		startTime:     time.Now(),
	}
}

// PerformanceMiddleware tracks request performance
func (pm *PerformanceMonitor) PerformanceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		method := c.Request.Method
		endpoint := fmt.Sprintf("%s %s", method, path)

		if path == "/health" {
			c.Next()
			return
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		pm.updateMetrics(endpoint, duration, status >= 400)

		// Calculations are sub-millisecond; only exports should ever show up here.
		if duration > pm.slowThreshold {
			log.Printf("SLOW REQUEST: %s %s took %v (status: %d)",
				method, c.Request.URL.Path, duration, status)
		}

		if status >= 500 {
			log.Printf("ERROR REQUEST: %s %s returned %d in %v",
				method, c.Request.URL.Path, status, duration)
		}

		c.Header("X-Response-Time", duration.String())
	}
}

// updateMetrics updates performance metrics
func (pm *PerformanceMonitor) updateMetrics(endpoint string, duration time.Duration, isError bool) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.metrics.RequestCount++

	stats := pm.metrics.EndpointStats[endpoint]
	stats.Count++
	stats.TotalDuration += duration
	stats.AverageTime = stats.TotalDuration / time.Duration(stats.Count)

	if isError {
		stats.ErrorCount++
	}

	if duration > pm.slowThreshold {
		stats.SlowCount++
	}

	pm.metrics.EndpointStats[endpoint] = stats

	pm.updateMemoryStats()

	totalErrors := int64(0)
	for _, stat := range pm.metrics.EndpointStats {
		totalErrors += stat.ErrorCount
	}
	pm.metrics.ErrorRate = float64(totalErrors) / float64(pm.metrics.RequestCount) * 100
}

// updateMemoryStats updates memory usage statistics. Callers hold the mutex.
func (pm *PerformanceMonitor) updateMemoryStats() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	pm.metrics.MemoryUsage = MemoryStats{
		Allocated:    m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		GCRuns:       m.NumGC,
		HeapInUse:    m.HeapInuse,
		HeapReleased: m.HeapReleased,
	}
}

// GetMetrics returns a snapshot of the current performance metrics.
func (pm *PerformanceMonitor) GetMetrics() *PerformanceMetrics {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.updateMemoryStats()

	snapshot := *pm.metrics
	snapshot.EndpointStats = make(map[string]Stats, len(pm.metrics.EndpointStats))
	for endpoint, stats := range pm.metrics.EndpointStats {
		snapshot.EndpointStats[endpoint] = stats
	}
	return &snapshot
}

// CompressionMiddleware provides GZIP compression for responses. The decision
// is taken from the response's Content-Type once the handler has set it, so
// PDF exports go out uncompressed; fpdf already deflates its streams.
func CompressionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gw := &gzipWriter{ResponseWriter: c.Writer}
		c.Writer = gw
		c.Next()
		gw.close()
	}
}

// gzipWriter wraps gin.ResponseWriter and turns compression on lazily, at
// the first body write. By then the render has set the response
// Content-Type, while gin still holds the headers back until that write.
type gzipWriter struct {
	gin.ResponseWriter
	gz      *gzip.Writer
	decided bool
}

func (g *gzipWriter) decide() {
	if g.decided {
		return
	}
	g.decided = true

	contentType := g.Header().Get("Content-Type")
	if strings.Contains(contentType, "application/pdf") ||
		strings.Contains(contentType, "application/octet-stream") ||
		strings.Contains(contentType, "image/") {
		return
	}

	g.Header().Set("Content-Encoding", "gzip")
	g.Header().Add("Vary", "Accept-Encoding")
	// The compressed length is unknown up front.
	g.Header().Del("Content-Length")
	g.gz = gzip.NewWriter(g.ResponseWriter)
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	g.decide()
	if g.gz != nil {
		return g.gz.Write(data)
	}
	return g.ResponseWriter.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func (g *gzipWriter) close() {
	if g.gz != nil {
		g.gz.Close()
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Don't set HSTS in development
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.JSON(413, gin.H{"error": "Request entity too large"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware provides basic per-IP rate limiting
func RateLimitMiddleware(requestsPerMinute int) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string][]time.Time)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := time.Now()

		mu.Lock()
		recent := clients[clientIP][:0]
		for _, reqTime := range clients[clientIP] {
			if now.Sub(reqTime) < time.Minute {
				recent = append(recent, reqTime)
			}
		}

		if len(recent) >= requestsPerMinute {
			clients[clientIP] = recent
			mu.Unlock()
			c.JSON(429, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		clients[clientIP] = append(recent, now)
		mu.Unlock()

		c.Next()
	}
}

// HealthCheckMiddleware provides health check endpoint
func HealthCheckMiddleware(pm *PerformanceMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != "/health" {
			c.Next()
			return
		}

		metrics := pm.GetMetrics()

		health := gin.H{
			"status":     "healthy",
			"service":    "aerorent-calculator",
			"timestamp":  time.Now(),
			"uptime":     time.Since(pm.startTime).String(),
			"requests":   metrics.RequestCount,
			"error_rate": fmt.Sprintf("%.2f%%", metrics.ErrorRate),
			"memory": gin.H{
				"allocated": formatBytes(metrics.MemoryUsage.Allocated),
				"sys":       formatBytes(metrics.MemoryUsage.Sys),
				"gc_runs":   metrics.MemoryUsage.GCRuns,
			},
		}

		if metrics.ErrorRate > 10 {
			health["status"] = "degraded"
		}
		if metrics.ErrorRate > 25 {
			health["status"] = "unhealthy"
		}

		c.JSON(200, health)
		c.Abort()
	}
}

// formatBytes formats byte count as human readable string
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
