package api

import (
	"net/http"
	"net/http/httptest"
	"ride-quote-service/internal/platform/obs"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newMiddlewareRouter(handler gin.HandlerFunc, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/test", handler)
	return r
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	var seen string
	r := newMiddlewareRouter(func(c *gin.Context) {
		seen = obs.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	}, requestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if seen == "" {
		t.Fatal("request id not stored in context")
	}
	if got := w.Header().Get(requestIDHeader); got != seen {
		t.Fatalf("header %s = %q, want %q", requestIDHeader, got, seen)
	}
}

func TestRequestIDReusesCallerHeader(t *testing.T) {
	r := newMiddlewareRouter(func(c *gin.Context) { c.Status(http.StatusOK) }, requestID())

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(requestIDHeader, "upstream-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "upstream-42" {
		t.Fatalf("header = %q, want upstream-42", got)
	}
}

func TestTimeoutContextHasDeadline(t *testing.T) {
	r := newMiddlewareRouter(func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			t.Error("context has no deadline")
		}
		c.Status(http.StatusOK)
	}, timeout(500*time.Millisecond))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
}

func TestTimeout503WhenHandlerExitsWithoutWriting(t *testing.T) {
	r := newMiddlewareRouter(func(c *gin.Context) {
		<-c.Request.Context().Done()
	}, timeout(5*time.Millisecond))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestTimeoutDisabled(t *testing.T) {
	r := newMiddlewareRouter(func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); ok {
			t.Error("unexpected deadline with timeout disabled")
		}
		c.Status(http.StatusNoContent)
	}, timeout(0))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
