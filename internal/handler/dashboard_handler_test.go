package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/mocks"
	"github.com/unclebandit/campaign-manager/internal/model"
)

func TestStatsHandler(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("DashboardStats", mock.Anything).Return(model.DashboardStats{
		ActiveCampaigns: 2,
		TotalSent:       4200,
		TotalReplies:    1080,
		MeetingsBooked:  302,
	}, nil)
	h := NewDashboardHandler(svc, zap.NewNop(), true)

	w := httptest.NewRecorder()
	h.StatsHandler(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"activeCampaigns":2,"totalSent":4200,"totalReplies":1080,"meetingsBooked":302}`, w.Body.String())
}

func TestStatsHandlerFailure(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("DashboardStats", mock.Anything).Return(model.DashboardStats{}, errors.New("timeout"))
	h := NewDashboardHandler(svc, zap.NewNop(), false)

	w := httptest.NewRecorder()
	h.StatsHandler(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch dashboard statistics","message":"Something went wrong"}`, w.Body.String())
}

func TestHealthHandler(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("Health", mock.Anything).Return(nil)
	h := NewDashboardHandler(svc, zap.NewNop(), true)

	w := httptest.NewRecorder()
	h.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.NotEmpty(t, body["message"])
}

func TestHealthHandlerDatabaseDown(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("Health", mock.Anything).Return(errors.New("dial tcp: connection refused"))
	h := NewDashboardHandler(svc, zap.NewNop(), true)

	w := httptest.NewRecorder()
	h.HealthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "disconnected", body["database"])
	assert.Equal(t, "dial tcp: connection refused", body["error"])
}
