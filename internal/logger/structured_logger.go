package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// LogLevel represents logging severity levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns string representation of log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string onto a LogLevel, defaulting to INFO.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp  time.Time              `json:"timestamp"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Service    string                 `json:"service"`
	RequestID  string                 `json:"request_id,omitempty"`
	Method     string                 `json:"method,omitempty"`
	Path       string                 `json:"path,omitempty"`
	StatusCode int                    `json:"status_code,omitempty"`
	Duration   string                 `json:"duration,omitempty"`
	IP         string                 `json:"ip,omitempty"`
	Component  string                 `json:"component,omitempty"`
	Operation  string                 `json:"operation,omitempty"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// StructuredLogger writes JSON log lines to stdout or a file.
type StructuredLogger struct {
	level   LogLevel
	service string
	output  *os.File
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      LogLevel
	Service    string
	OutputPath string
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(config LoggerConfig) (*StructuredLogger, error) {
	var output *os.File
	var err error

	if config.OutputPath == "" || config.OutputPath == "stdout" {
		output = os.Stdout
	} else {
		if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		output, err = os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
	}

	return &StructuredLogger{
		level:   config.Level,
		service: config.Service,
		output:  output,
	}, nil
}

// log writes a structured log entry
func (sl *StructuredLogger) log(level LogLevel, message string, fields map[string]interface{}) {
	if level < sl.level {
		return
	}

	entry := &LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level.String(),
		Message:   message,
		Service:   sl.service,
		Fields:    fields,
	}

	jsonData, _ := json.Marshal(entry)
	fmt.Fprintf(sl.output, "%s\n", jsonData)
}

// Debug logs debug messages
func (sl *StructuredLogger) Debug(message string, fields ...map[string]interface{}) {
	sl.log(DEBUG, message, sl.mergeFields(fields...))
}

// Info logs info messages
func (sl *StructuredLogger) Info(message string, fields ...map[string]interface{}) {
	sl.log(INFO, message, sl.mergeFields(fields...))
}

// Warn logs warning messages
func (sl *StructuredLogger) Warn(message string, fields ...map[string]interface{}) {
	sl.log(WARN, message, sl.mergeFields(fields...))
}

// Error logs error messages
func (sl *StructuredLogger) Error(message string, err error, fields ...map[string]interface{}) {
	logFields := sl.mergeFields(fields...)
	if err != nil {
		logFields["error"] = err.Error()
	}
	sl.log(ERROR, message, logFields)
}

// Fatal logs fatal messages and exits
func (sl *StructuredLogger) Fatal(message string, err error, fields ...map[string]interface{}) {
	logFields := sl.mergeFields(fields...)
	if err != nil {
		logFields["error"] = err.Error()
	}
	sl.log(FATAL, message, logFields)
	os.Exit(1)
}

// LogCalculation logs one engine evaluation: how big the config was, whether
// it validated, and how long the pass took.
func (sl *StructuredLogger) LogCalculation(operation string, duration time.Duration, valid bool, fields ...map[string]interface{}) {
	logFields := sl.mergeFields(fields...)
	logFields["component"] = "engine"
	logFields["operation"] = operation
	logFields["duration"] = duration.String()
	logFields["valid"] = valid

	if valid {
		sl.log(INFO, "Calculation", logFields)
	} else {
		sl.log(WARN, "Calculation rejected", logFields)
	}
}

// LogRequest logs HTTP request details
func (sl *StructuredLogger) LogRequest(c *gin.Context, duration time.Duration, fields ...map[string]interface{}) {
	entry := &LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      INFO.String(),
		Message:    "HTTP Request",
		Service:    sl.service,
		RequestID:  sl.getRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		StatusCode: c.Writer.Status(),
		Duration:   duration.String(),
		IP:         c.ClientIP(),
		Fields:     sl.mergeFields(fields...),
	}

	jsonData, _ := json.Marshal(entry)
	fmt.Fprintf(sl.output, "%s\n", jsonData)
}

// mergeFields merges multiple field maps
func (sl *StructuredLogger) mergeFields(fields ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range fields {
		for k, v := range field {
			result[k] = v
		}
	}
	return result
}

// getRequestID extracts or generates request ID
func (sl *StructuredLogger) getRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// LoggingMiddleware provides request logging middleware
func (sl *StructuredLogger) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// Health checks would drown everything else out.
		if path == "/health" {
			c.Next()
			return
		}

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("%d", start.UnixNano())
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		duration := time.Since(start)

		fields := map[string]interface{}{
			"bytes_in":  c.Request.ContentLength,
			"bytes_out": c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		sl.LogRequest(c, duration, fields)
	}
}

// Close closes the logger output
func (sl *StructuredLogger) Close() error {
	if sl.output != os.Stdout && sl.output != os.Stderr {
		return sl.output.Close()
	}
	return nil
}
