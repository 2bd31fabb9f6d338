package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/metrics"
	"github.com/unclebandit/campaign-manager/internal/mocks"
	"github.com/unclebandit/campaign-manager/internal/model"
	"github.com/unclebandit/campaign-manager/internal/server"
)

func newTestRouter(svc *mocks.CampaignServicer) http.Handler {
	registry := prometheus.NewRegistry()
	metrics.MustRegister(registry)
	return server.NewRouter(server.Options{
		Service:     svc,
		Log:         zap.NewNop(),
		ShowErrors:  true,
		CORSOrigins: []string{"*"},
		Gatherer:    registry,
	})
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(new(mocks.CampaignServicer))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())
}

func TestRoutesAreMounted(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("ListCampaigns", mock.Anything).Return([]model.Campaign{}, nil)
	svc.On("DashboardStats", mock.Anything).Return(model.DashboardStats{}, nil)
	svc.On("Health", mock.Anything).Return(nil)
	r := newTestRouter(svc)

	for _, path := range []string{"/campaigns", "/dashboard/stats", "/health"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/campaigns", nil))
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("Health", mock.Anything).Return(nil)
	r := newTestRouter(svc)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `campaign_http_requests_total{method="GET",route="/health",status="200"}`))
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(new(mocks.CampaignServicer))

	req := httptest.NewRequest(http.MethodOptions, "/campaigns", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
