package monitoring

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorSeverity represents error severity levels
type ErrorSeverity int

const (
	LOW ErrorSeverity = iota
	MEDIUM
	HIGH
	CRITICAL
)

// String returns string representation of error severity
func (es ErrorSeverity) String() string {
	switch es {
	case LOW:
		return "LOW"
	case MEDIUM:
		return "MEDIUM"
	case HIGH:
		return "HIGH"
	case CRITICAL:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ErrorDetails represents one tracked error, deduplicated by fingerprint.
type ErrorDetails struct {
	ID          string                 `json:"id"`
	Message     string                 `json:"message"`
	Error       string                 `json:"error"`
	Severity    string                 `json:"severity"`
	Component   string                 `json:"component"`
	Operation   string                 `json:"operation"`
	Timestamp   time.Time              `json:"timestamp"`
	RequestID   string                 `json:"request_id,omitempty"`
	Method      string                 `json:"method,omitempty"`
	Path        string                 `json:"path,omitempty"`
	IP          string                 `json:"ip,omitempty"`
	Stack       []StackFrame           `json:"stack,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Fingerprint string                 `json:"fingerprint"`
	Count       int                    `json:"count"`
	FirstSeen   time.Time              `json:"first_seen"`
	LastSeen    time.Time              `json:"last_seen"`
}

// StackFrame represents a single stack frame
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Package  string `json:"package"`
}

// ErrorSummary represents error counts grouped by component
type ErrorSummary struct {
	Count       int       `json:"count"`
	LastOccured time.Time `json:"last_occured"`
	Severity    string    `json:"severity"`
	Component   string    `json:"component"`
	Message     string    `json:"message"`
}

// ErrorTracker keeps an in-memory ring of recent errors for the monitoring
// endpoint. Nothing is persisted.
type ErrorTracker struct {
	errors    map[string]*ErrorDetails
	mutex     sync.RWMutex
	maxErrors int
}

// NewErrorTracker creates a new error tracker
func NewErrorTracker(maxErrors int) *ErrorTracker {
	return &ErrorTracker{
		errors:    make(map[string]*ErrorDetails),
		maxErrors: maxErrors,
	}
}

// CaptureError captures and processes an error
func (et *ErrorTracker) CaptureError(message string, err error, severity ErrorSeverity, context map[string]interface{}) *ErrorDetails {
	now := time.Now().UTC()
	errorDetails := &ErrorDetails{
		ID:        fmt.Sprintf("err_%d", now.UnixNano()),
		Message:   message,
		Severity:  severity.String(),
		Timestamp: now,
		Context:   context,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}

	if err != nil {
		errorDetails.Error = err.Error()
	}

	if comp, ok := context["component"].(string); ok {
		errorDetails.Component = comp
	}
	if op, ok := context["operation"].(string); ok {
		errorDetails.Operation = op
	}

	errorDetails.Stack = getStackTrace(3)
	errorDetails.Fingerprint = fingerprint(errorDetails)

	et.storeError(errorDetails)
	return errorDetails
}

// CaptureRequestError captures an error from HTTP request context
func (et *ErrorTracker) CaptureRequestError(c *gin.Context, message string, err error, severity ErrorSeverity, context map[string]interface{}) *ErrorDetails {
	if context == nil {
		context = make(map[string]interface{})
	}

	context["method"] = c.Request.Method
	context["path"] = c.Request.URL.Path
	context["request_id"] = c.GetString("request_id")

	errorDetails := et.CaptureError(message, err, severity, context)

	et.mutex.Lock()
	if stored, exists := et.errors[errorDetails.Fingerprint]; exists {
		stored.Method = c.Request.Method
		stored.Path = c.Request.URL.Path
		stored.IP = c.ClientIP()
		stored.RequestID = c.GetString("request_id")
	}
	et.mutex.Unlock()

	return errorDetails
}

// GetErrors returns tracked errors, most recent first.
func (et *ErrorTracker) GetErrors(limit int) []*ErrorDetails {
	et.mutex.RLock()
	defer et.mutex.RUnlock()

	errors := make([]*ErrorDetails, 0, len(et.errors))
	for _, e := range et.errors {
		errors = append(errors, e)
	}

	for i := 0; i < len(errors)-1; i++ {
		for j := 0; j < len(errors)-i-1; j++ {
			if errors[j].LastSeen.Before(errors[j+1].LastSeen) {
				errors[j], errors[j+1] = errors[j+1], errors[j]
			}
		}
	}

	if limit > 0 && limit < len(errors) {
		errors = errors[:limit]
	}

	return errors
}

// GetErrorSummary returns error summary by component
func (et *ErrorTracker) GetErrorSummary() map[string]ErrorSummary {
	et.mutex.RLock()
	defer et.mutex.RUnlock()

	summary := make(map[string]ErrorSummary)

	for _, e := range et.errors {
		key := e.Component
		if key == "" {
			key = "unknown"
		}

		if existing, exists := summary[key]; exists {
			existing.Count += e.Count
			if e.LastSeen.After(existing.LastOccured) {
				existing.LastOccured = e.LastSeen
			}
			summary[key] = existing
		} else {
			summary[key] = ErrorSummary{
				Count:       e.Count,
				LastOccured: e.LastSeen,
				Severity:    e.Severity,
				Component:   e.Component,
				Message:     e.Message,
			}
		}
	}

	return summary
}

// storeError stores or updates an error
func (et *ErrorTracker) storeError(errorDetails *ErrorDetails) {
	et.mutex.Lock()
	defer et.mutex.Unlock()

	if existing, exists := et.errors[errorDetails.Fingerprint]; exists {
		existing.Count++
		existing.LastSeen = errorDetails.Timestamp
		existing.Context = errorDetails.Context
		return
	}

	et.errors[errorDetails.Fingerprint] = errorDetails

	if len(et.errors) > et.maxErrors {
		et.evictOldestError()
	}
}

// evictOldestError removes the oldest error
func (et *ErrorTracker) evictOldestError() {
	var oldest *ErrorDetails
	var oldestKey string

	for key, e := range et.errors {
		if oldest == nil || e.FirstSeen.Before(oldest.FirstSeen) {
			oldest = e
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(et.errors, oldestKey)
	}
}

// fingerprint generates a deduplication key from the error's identity.
func fingerprint(errorDetails *ErrorDetails) string {
	components := []string{
		errorDetails.Message,
		errorDetails.Component,
		errorDetails.Operation,
	}

	if len(errorDetails.Stack) > 0 {
		components = append(components, errorDetails.Stack[0].Function, errorDetails.Stack[0].File)
	}

	return fmt.Sprintf("%x", strings.Join(components, "|"))
}

// getStackTrace captures stack trace
func getStackTrace(skip int) []StackFrame {
	var frames []StackFrame
	for i := skip; i < skip+10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		funcName := fn.Name()
		packageName := ""
		if parts := strings.Split(funcName, "."); len(parts) > 1 {
			packageName = strings.Join(parts[:len(parts)-1], ".")
			funcName = parts[len(parts)-1]
		}

		if parts := strings.Split(file, "/"); len(parts) > 0 {
			file = parts[len(parts)-1]
		}

		frames = append(frames, StackFrame{
			Function: funcName,
			File:     file,
			Line:     line,
			Package:  packageName,
		})
	}

	return frames
}

// ErrorTrackingMiddleware recovers panics and records request errors.
func (et *ErrorTracker) ErrorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				et.CaptureRequestError(c, "Application Panic", fmt.Errorf("%v", err), CRITICAL, map[string]interface{}{
					"panic": true,
				})

				c.JSON(500, gin.H{"error": "Internal server error"})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors {
				severity := MEDIUM
				if c.Writer.Status() >= 500 {
					severity = HIGH
				}

				et.CaptureRequestError(c, "Request Error", ginErr.Err, severity, map[string]interface{}{
					"error_type": ginErr.Type,
				})
			}
		}
	}
}
