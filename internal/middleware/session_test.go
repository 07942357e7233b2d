package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Session())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = c.GetString(ContextSessionID)
		c.Status(http.StatusOK)
	})

	// No header: a session id is minted and echoed back.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatal("handler should see a minted session id")
	}
	if got := w.Header().Get(SessionHeader); got != seen {
		t.Errorf("echoed header = %q, want minted id %q", got, seen)
	}

	// Presented header: passed through untouched.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "my-session")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if seen != "my-session" {
		t.Errorf("handler saw %q, want presented id", seen)
	}
	if got := w.Header().Get(SessionHeader); got != "" {
		t.Errorf("presented id must not be echoed, got %q", got)
	}
}

func TestRateLimitNilLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Session(), RateLimit(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with limiting disabled", w.Code)
	}
}
