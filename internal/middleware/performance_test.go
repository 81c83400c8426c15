package middleware

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestPerformanceMiddleware_ConcurrentRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pm := NewPerformanceMonitor(time.Second)
	router := gin.New()
	router.Use(pm.PerformanceMiddleware())
	router.GET("/ping/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/ping/%d", n%5), nil)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)
			}
		}(i)
	}
	wg.Wait()

	metrics := pm.GetMetrics()
	if metrics.RequestCount != goroutines*perGoroutine {
		t.Errorf("request count = %d, want %d", metrics.RequestCount, goroutines*perGoroutine)
	}

	stats, ok := metrics.EndpointStats["GET /ping/:id"]
	if !ok {
		t.Fatal("endpoint stats missing for GET /ping/:id")
	}
	if stats.Count != goroutines*perGoroutine {
		t.Errorf("endpoint count = %d, want %d", stats.Count, goroutines*perGoroutine)
	}
	if metrics.ErrorRate != 0 {
		t.Errorf("error rate = %f, want 0", metrics.ErrorRate)
	}
}

func TestGetMetrics_ReturnsSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pm := NewPerformanceMonitor(time.Second)
	pm.updateMetrics("GET /a", time.Millisecond, false)

	snapshot := pm.GetMetrics()
	snapshot.EndpointStats["GET /b"] = Stats{Count: 99}

	if _, ok := pm.GetMetrics().EndpointStats["GET /b"]; ok {
		t.Error("mutating the snapshot leaked into the monitor")
	}
}

func TestCompressionMiddleware_CompressesJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CompressionMiddleware())
	router.GET("/data", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": strings.Repeat("drone", 200)})
	})

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer zr.Close()
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !strings.Contains(string(body), "drone") {
		t.Error("decompressed body does not contain payload")
	}
}

func TestCompressionMiddleware_SkipsPDFResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pdf := []byte("%PDF-1.4 fake document body")
	router := gin.New()
	router.Use(CompressionMiddleware())
	router.GET("/report", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", pdf)
	})

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Fatalf("Content-Encoding = %q, want empty", got)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("PDF body was altered")
	}
}

func TestCompressionMiddleware_RespectsAcceptEncoding(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CompressionMiddleware())
	router.GET("/data", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want empty without Accept-Encoding", got)
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitMiddleware(2))
	router.GET("/data", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("first two requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func TestRateLimitMiddleware_ConcurrentClients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitMiddleware(1000))
	router.GET("/data", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				req := httptest.NewRequest(http.MethodGet, "/data", nil)
				req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", n)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)
				if w.Code != http.StatusOK {
					t.Errorf("status = %d, want 200", w.Code)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
