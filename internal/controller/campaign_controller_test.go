package controller_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/controller"
	appErrors "github.com/unclebandit/campaign-manager/internal/errors"
	"github.com/unclebandit/campaign-manager/internal/mocks"
	"github.com/unclebandit/campaign-manager/internal/model"
)

func newRouter(svc *mocks.CampaignServicer, showErrors bool) http.Handler {
	ctrl := controller.NewCampaignController(svc, zap.NewNop(), showErrors)
	r := chi.NewRouter()
	r.Route("/campaigns", ctrl.Routes)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var sample = model.Campaign{
	ID:          1,
	Name:        "Q4 Product Launch",
	Type:        model.CampaignTypeEmail,
	Description: "Launch campaign for new product features",
	Status:      model.CampaignStatusActive,
	Sent:        1250,
	Replies:     342,
	CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	UpdatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestListCampaigns(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("ListCampaigns", mock.Anything).Return([]model.Campaign{sample}, nil)

	w := do(newRouter(svc, true), http.MethodGet, "/campaigns", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Q4 Product Launch", got[0]["name"])
	assert.Contains(t, got[0], "createdAt")
	assert.Contains(t, got[0], "updatedAt")
	svc.AssertExpectations(t)
}

func TestListCampaignsFailure(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("ListCampaigns", mock.Anything).Return(nil, errors.New("pq: connection refused"))

	w := do(newRouter(svc, true), http.MethodGet, "/campaigns", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Failed to fetch campaigns", body["error"])
	assert.Equal(t, "pq: connection refused", body["message"])

	w = do(newRouter(svc, false), http.MethodGet, "/campaigns", "")
	assert.Equal(t, "Something went wrong", decode(t, w)["message"])
}

func TestGetCampaign(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("GetCampaign", mock.Anything, int64(1)).Return(&sample, nil)
	svc.On("GetCampaign", mock.Anything, int64(2)).Return(nil, appErrors.NewCampaignNotFound(2))
	r := newRouter(svc, true)

	w := do(r, http.MethodGet, "/campaigns/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["id"])

	w = do(r, http.MethodGet, "/campaigns/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Campaign not found", decode(t, w)["error"])
}

func TestMalformedIDIsNotFound(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	r := newRouter(svc, true)

	for _, path := range []string{"/campaigns/abc", "/campaigns/0", "/campaigns/-3"} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w := do(r, http.MethodDelete, "/campaigns/abc", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNotCalled(t, "GetCampaign", mock.Anything, mock.Anything)
}

func TestCreateCampaign(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	created := sample
	created.Status = model.CampaignStatusDraft
	created.Sent, created.Replies = 0, 0
	svc.On("CreateCampaign", mock.Anything, mock.MatchedBy(func(d model.CampaignDraft) bool {
		return d.Name.Value == "Q4 Product Launch" && d.Type.Value == "Email"
	})).Return(&created, nil)

	w := do(newRouter(svc, true), http.MethodPost, "/campaigns",
		`{"name":"Q4 Product Launch","type":"Email","description":"Launch campaign for new product features","status":"Active","sent":99}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Draft", body["status"])
	assert.Equal(t, float64(0), body["sent"])
	svc.AssertExpectations(t)
}

func TestCreateCampaignValidation(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("CreateCampaign", mock.Anything, mock.Anything).Return(nil,
		appErrors.NewValidationError("Campaign name must be at least 3 characters", "Campaign type must be Email or WhatsApp"))

	w := do(newRouter(svc, true), http.MethodPost, "/campaigns", `{"name":"ab","type":"SMS"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, []any{
		"Campaign name must be at least 3 characters",
		"Campaign type must be Email or WhatsApp",
	}, body["details"])
}

func TestInvalidJSONBody(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	r := newRouter(svc, true)

	for _, req := range []struct{ method, path string }{
		{http.MethodPost, "/campaigns"},
		{http.MethodPut, "/campaigns/1"},
		{http.MethodPatch, "/campaigns/1"},
	} {
		w := do(r, req.method, req.path, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code, req.method)
		assert.Equal(t, "Invalid JSON body", decode(t, w)["error"])
	}
}

func TestUpdateCampaign(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	updated := sample
	updated.Status = model.CampaignStatusCompleted
	svc.On("UpdateCampaign", mock.Anything, int64(1), mock.MatchedBy(func(u model.CampaignUpdate) bool {
		return u.Status.Value == "Completed" && !u.Name.Present
	})).Return(&updated, nil)
	svc.On("UpdateCampaign", mock.Anything, int64(1), mock.Anything).Return(nil, appErrors.ErrNoFieldsToUpdate)
	svc.On("UpdateCampaign", mock.Anything, int64(7), mock.Anything).Return(nil, appErrors.NewCampaignNotFound(7))
	r := newRouter(svc, true)

	w := do(r, http.MethodPut, "/campaigns/1", `{"status":"Completed"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Completed", decode(t, w)["status"])

	w = do(r, http.MethodPut, "/campaigns/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", decode(t, w)["error"])

	w = do(r, http.MethodPut, "/campaigns/7", `{"status":"Completed"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchCampaign(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	patched := sample
	patched.Sent = 500
	svc.On("PatchCampaign", mock.Anything, int64(1), mock.MatchedBy(func(p model.CampaignPatch) bool {
		return p.Sent.Valid && p.Sent.Value == 500 && !p.Replies.Present
	})).Return(&patched, nil)
	svc.On("PatchCampaign", mock.Anything, int64(1), mock.Anything).Return(nil,
		appErrors.NewValidationError("Sent must be a non-negative number"))
	r := newRouter(svc, true)

	w := do(r, http.MethodPatch, "/campaigns/1", `{"sent":500}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(500), decode(t, w)["sent"])

	w = do(r, http.MethodPatch, "/campaigns/1", `{"sent":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"Sent must be a non-negative number"}, decode(t, w)["details"])
}

func TestDeleteCampaign(t *testing.T) {
	svc := new(mocks.CampaignServicer)
	svc.On("DeleteCampaign", mock.Anything, int64(1)).Return(nil).Once()
	svc.On("DeleteCampaign", mock.Anything, int64(1)).Return(appErrors.NewCampaignNotFound(1))
	r := newRouter(svc, true)

	w := do(r, http.MethodDelete, "/campaigns/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(r, http.MethodDelete, "/campaigns/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Campaign not found", decode(t, w)["error"])
}
