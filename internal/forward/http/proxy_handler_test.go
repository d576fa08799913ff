package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func TestProxyHandler_ForwardHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		status int
		result string
	}{
		{"Success", http.StatusOK, "success"},
		{"UpstreamError", http.StatusBadGateway, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(r.URL.Path))
			})
			m := &mockBusinessMetrics{}
			m.On("RecordOperation", mock.Anything, "forward", "proxy", tt.result).Return().Once()
			m.On("RecordDuration", mock.Anything, "forward", "proxy", mock.AnythingOfType("time.Duration"), tt.result).
				Return().
				Once()

			router := gin.New()
			router.NoRoute(NewProxyHandler(upstream, m).ForwardHandler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1beta/files/abc", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "/v1beta/files/abc", w.Body.String())
			m.AssertExpectations(t)
		})
	}
}

func TestProxyHandler_ForwardHandler_ClientGone(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel()
	})
	m := &mockBusinessMetrics{}
	m.On("RecordOperation", mock.Anything, "forward", "proxy", "error").Return().Once()
	m.On("RecordDuration", mock.Anything, "forward", "proxy", mock.AnythingOfType("time.Duration"), "error").
		Return().
		Once()

	router := gin.New()
	router.NoRoute(NewProxyHandler(upstream, m).ForwardHandler)

	req := httptest.NewRequest(http.MethodPost, "/v1beta/models", nil).WithContext(ctx)
	router.ServeHTTP(httptest.NewRecorder(), req)

	m.AssertExpectations(t)
}
