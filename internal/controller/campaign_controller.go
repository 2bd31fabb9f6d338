// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaign-manager/internal/errors"
	"github.com/unclebandit/campaign-manager/internal/model"
	"github.com/unclebandit/campaign-manager/internal/response"
	"github.com/unclebandit/campaign-manager/internal/service"
)

type CampaignController struct {
	CampaignService service.CampaignServicer
	Log             *zap.Logger
	ShowErrors      bool
}

func NewCampaignController(svc service.CampaignServicer, log *zap.Logger, showErrors bool) *CampaignController {
	return &CampaignController{
		CampaignService: svc,
		Log:             log,
		ShowErrors:      showErrors,
	}
}

// Routes mounts the campaign endpoints on r.
func (c *CampaignController) Routes(r chi.Router) {
	r.Get("/", c.ListCampaigns)
	r.Post("/", c.CreateCampaign)
	r.Get("/{id}", c.GetCampaign)
	r.Put("/{id}", c.UpdateCampaign)
	r.Patch("/{id}", c.PatchCampaign)
	r.Delete("/{id}", c.DeleteCampaign)
}

// campaignID parses the {id} URL parameter. Anything that is not a positive
// integer cannot name a stored campaign.
func campaignID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody reads a request body. Unknown members are ignored, so a
// client-sent status or counter on create has no effect.
func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeError maps a service error onto the response taxonomy.
func (c *CampaignController) writeError(w http.ResponseWriter, err error, failure string) {
	if details, ok := appErrors.ValidationDetails(err); ok {
		c.Log.Warn("Campaign validation failed", zap.Strings("details", details))
		response.JSON(w, http.StatusBadRequest, response.ErrorResponse{
			Error:   "Validation failed",
			Details: details,
		})
		return
	}
	if errors.Is(err, appErrors.ErrNoFieldsToUpdate) {
		response.Error(w, http.StatusBadRequest, "No fields to update")
		return
	}
	if appErrors.IsNotFound(err) {
		response.Error(w, http.StatusNotFound, "Campaign not found")
		return
	}

	c.Log.Error(failure, zap.Error(err))
	response.Internal(w, failure, err, c.ShowErrors)
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := c.CampaignService.ListCampaigns(r.Context())
	if err != nil {
		c.writeError(w, err, "Failed to fetch campaigns")
		return
	}
	response.JSON(w, http.StatusOK, campaigns)
}

func (c *CampaignController) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, "Campaign not found")
		return
	}

	campaign, err := c.CampaignService.GetCampaign(r.Context(), id)
	if err != nil {
		c.writeError(w, err, "Failed to fetch campaign")
		return
	}
	response.JSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body model.CampaignDraft
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(r.Context(), body)
	if err != nil {
		c.writeError(w, err, "Failed to create campaign")
		return
	}

	c.Log.Info("Campaign created",
		zap.Int64("campaign_id", campaign.ID),
		zap.String("type", string(campaign.Type)))
	response.JSON(w, http.StatusCreated, campaign)
}

func (c *CampaignController) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, "Campaign not found")
		return
	}

	var body model.CampaignUpdate
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	campaign, err := c.CampaignService.UpdateCampaign(r.Context(), id, body)
	if err != nil {
		c.writeError(w, err, "Failed to update campaign")
		return
	}
	response.JSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) PatchCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, "Campaign not found")
		return
	}

	var body model.CampaignPatch
	if err := decodeBody(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	campaign, err := c.CampaignService.PatchCampaign(r.Context(), id, body)
	if err != nil {
		c.writeError(w, err, "Failed to update campaign")
		return
	}
	response.JSON(w, http.StatusOK, campaign)
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		response.Error(w, http.StatusNotFound, "Campaign not found")
		return
	}

	if err := c.CampaignService.DeleteCampaign(r.Context(), id); err != nil {
		c.writeError(w, err, "Failed to delete campaign")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
