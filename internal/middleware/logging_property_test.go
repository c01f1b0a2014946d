package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Request logging: every request is logged with method, path, acting staff
// member and timing.
func TestProperty_RequestLogging(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all requests are logged with required fields", prop.ForAll(
		func(method string, path string, staffID string) bool {
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestLoggingMiddleware(logger))

			router.Handle(method, path, func(c *gin.Context) {
				if staffID != "" {
					c.Set(StaffIDKey, staffID)
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			var requestLog *observer.LoggedEntry
			for _, entry := range logs.All() {
				if entry.Message == "Request completed" {
					requestLog = &entry
					break
				}
			}
			if requestLog == nil {
				t.Logf("Request log entry not found")
				return false
			}

			fields := requestLog.ContextMap()
			if fields["method"] != method {
				t.Logf("Method mismatch: expected %s, got %v", method, fields["method"])
				return false
			}
			if fields["path"] != path {
				t.Logf("Path mismatch: expected %s, got %v", path, fields["path"])
				return false
			}

			wantStaff := staffID
			if wantStaff == "" {
				wantStaff = "anonymous"
			}
			if fields["staff_id"] != wantStaff {
				t.Logf("staff_id mismatch: expected %s, got %v", wantStaff, fields["staff_id"])
				return false
			}

			for _, key := range []string{"timestamp", "duration", "status"} {
				if _, ok := fields[key]; !ok {
					t.Logf("%s field missing", key)
					return false
				}
			}
			return true
		},
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
		gen.OneConstOf("/api/v1/alerts/active", "/health", "/api/v1/vitals"),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRequestLoggingMiddleware_StaffHeaderAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLoggingMiddleware(zap.New(core)))
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(StaffHeader, "nurse-7")
	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "nurse-7", entries[0].ContextMap()["staff_id"])
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	}
}

// Errors attached to the context are logged with stack traces and request
// context.
func TestProperty_ErrorLoggingDetail(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("errors are logged with stack traces and context", prop.ForAll(
		func(errorMessage string, path string) bool {
			// Create observed logger
			core, logs := observer.New(zapcore.ErrorLevel)
			logger := zap.New(core)

			// Create test router
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(ErrorLoggingMiddleware(logger))

			// Add test route that generates an error
			router.GET(path, func(c *gin.Context) {
				c.Error(gin.Error{
					Err:  &testError{msg: errorMessage},
					Type: gin.ErrorTypePrivate,
				})
				c.Status(http.StatusInternalServerError)
			})

			// Create test request
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()

			// Execute request
			router.ServeHTTP(w, req)

			// Verify error log entry was created
			logEntries := logs.All()
			if len(logEntries) == 0 {
				t.Logf("No error log entries found")
				return false
			}

			// Find the error log entry
			var errorLog *observer.LoggedEntry
			for i := range logEntries {
				if logEntries[i].Message == "Request error occurred" {
					errorLog = &logEntries[i]
					break
				}
			}

			if errorLog == nil {
				t.Logf("Error log entry not found")
				return false
			}

			// Verify required fields
			fields := errorLog.ContextMap()

			// Error should be present
			if _, ok := fields["error"]; !ok {
				t.Logf("error field missing")
				return false
			}

			// Method should be present
			if fields["method"] != "GET" {
				t.Logf("method field missing or incorrect")
				return false
			}

			// Path should be present
			if fields["path"] != path {
				t.Logf("path field missing or incorrect")
				return false
			}

			// Stack trace should be present
			if _, ok := fields["stack_trace"]; !ok {
				t.Logf("stack_trace field missing")
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.OneConstOf("/api/v1/test", "/api/v1/error", "/api/v1/fail"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Request IDs: an incoming X-Request-ID is echoed, otherwise a UUID is issued.
func TestProperty_RequestID(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("request id is echoed or generated", prop.ForAll(
		func(incoming string) bool {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestIDMiddleware())

			var seen string
			router.GET("/health", func(c *gin.Context) {
				seen = c.GetString(RequestIDKey)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if incoming != "" {
				req.Header.Set("X-Request-ID", incoming)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			header := w.Header().Get("X-Request-ID")
			if header != seen {
				t.Logf("header %q differs from context %q", header, seen)
				return false
			}
			if incoming != "" {
				return header == incoming
			}
			_, err := uuid.Parse(header)
			return err == nil
		},
		gen.OneGenOf(gen.Const(""), gen.AlphaString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSlowRequestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SlowRequestLoggingMiddleware(zap.New(core), 20*time.Millisecond))
	router.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/api/v1/sweeps/:kind", func(c *gin.Context) {
		time.Sleep(40 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fast", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/sweeps/risk", nil))

	entries := logs.FilterMessage("Slow request").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "/api/v1/sweeps/:kind", entries[0].ContextMap()["route"])
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryMiddleware(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

// Helper types

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
