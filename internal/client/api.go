package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unclebandit/campaign-manager/internal/model"
)

// Campaign is a record as a client sees it. Server records carry numeric ids,
// records created offline carry UUIDs, so the id is kept as text.
type Campaign struct {
	ID          CampaignID           `json:"id"`
	Name        string               `json:"name"`
	Type        model.CampaignType   `json:"type"`
	Description string               `json:"description"`
	Status      model.CampaignStatus `json:"status"`
	Sent        int64                `json:"sent"`
	Replies     int64                `json:"replies"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   *time.Time           `json:"updatedAt,omitempty"`
}

// CampaignID accepts both JSON numbers and strings.
type CampaignID string

func (id *CampaignID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = CampaignID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("campaign id: %w", err)
	}
	*id = CampaignID(n.String())
	return nil
}

func (c Campaign) toModel() model.Campaign {
	return model.Campaign{
		Name:        c.Name,
		Type:        c.Type,
		Description: c.Description,
		Status:      c.Status,
		Sent:        c.Sent,
		Replies:     c.Replies,
		CreatedAt:   c.CreatedAt,
	}
}

// CampaignInput is the create form.
type CampaignInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// UpdateInput is a full update; nil members are not sent.
type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type PatchInput struct {
	Status  *string `json:"status,omitempty"`
	Sent    *int64  `json:"sent,omitempty"`
	Replies *int64  `json:"replies,omitempty"`
}

// APIError is a non-2xx answer from the campaign API.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, ", ")
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// APIClient talks to the campaign REST API.
type APIClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
			apiErr.Details = payload.Details
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func campaignPath(id CampaignID) string {
	return "/campaigns/" + url.PathEscape(string(id))
}

func (c *APIClient) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	var out []Campaign
	if err := c.do(ctx, http.MethodGet, "/campaigns", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Campaign{}
	}
	return out, nil
}

func (c *APIClient) GetCampaign(ctx context.Context, id CampaignID) (*Campaign, error) {
	var out Campaign
	if err := c.do(ctx, http.MethodGet, campaignPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) CreateCampaign(ctx context.Context, in CampaignInput) (*Campaign, error) {
	var out Campaign
	if err := c.do(ctx, http.MethodPost, "/campaigns", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) UpdateCampaign(ctx context.Context, id CampaignID, in UpdateInput) (*Campaign, error) {
	var out Campaign
	if err := c.do(ctx, http.MethodPut, campaignPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) PatchCampaign(ctx context.Context, id CampaignID, in PatchInput) (*Campaign, error) {
	var out Campaign
	if err := c.do(ctx, http.MethodPatch, campaignPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) DeleteCampaign(ctx context.Context, id CampaignID) error {
	return c.do(ctx, http.MethodDelete, campaignPath(id), nil, nil)
}

func (c *APIClient) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &out); err != nil {
		return model.DashboardStats{}, err
	}
	return out, nil
}

// HealthCheck is true only for a 2xx answer reporting a connected database.
func (c *APIClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var body struct {
		Database string `json:"database"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return resp.StatusCode >= 200 && resp.StatusCode < 300 && body.Database == "connected"
}
