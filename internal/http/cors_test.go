package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(t *testing.T) (*gin.Engine, *int) {
	t.Helper()
	calls := 0

	router := gin.New()
	router.Use(createCORSMiddleware(discardLogger())...)
	router.POST("/api/generate", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"code": 10000})
	})
	router.NoRoute(func(c *gin.Context) {
		calls++
		c.Status(http.StatusUnauthorized)
	})

	return router, &calls
}

func TestCORS_AllowOriginOnEveryResponse(t *testing.T) {
	router, _ := newCORSRouter(t)

	t.Run("WithoutOrigin", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/generate", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("WithOrigin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Len(t, w.Header().Values("Access-Control-Allow-Origin"), 1)
	})

	t.Run("OnRejectedRequests", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1beta/models", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORS_OptionsShortCircuits(t *testing.T) {
	t.Run("BrowserPreflight", func(t *testing.T) {
		router, calls := newCORSRouter(t)

		req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "x-sign,x-time,x-nonce")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")), "x-sign")
		assert.Zero(t, *calls)
	})

	t.Run("BareOptions", func(t *testing.T) {
		router, calls := newCORSRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1beta/models/gemini:generateContent", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Zero(t, *calls)
	})
}
