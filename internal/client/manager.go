package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/model"
)

// Source tells where a result came from.
type Source string

const (
	SourceAPI   Source = "api"
	SourceLocal Source = "local"
)

// demoAgeDays places the offline demo records in the recent past.
var demoAgeDays = []int{7, 5, 14, 2}

// Manager routes reads and creates to the API while it reports healthy and to
// the local store otherwise.
type Manager struct {
	API   *APIClient
	Local LocalStore
	Log   *zap.Logger
	Now   func() time.Time
	NewID func() string
}

func NewManager(api *APIClient, local LocalStore, log *zap.Logger) *Manager {
	return &Manager{
		API:   api,
		Local: local,
		Log:   log,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

func (m *Manager) Online(ctx context.Context) bool {
	return m.API.HealthCheck(ctx)
}

// List reads the API when it is healthy. Otherwise, or when the API read fails,
// it falls back to the local store, which is first filled with demo data if empty.
func (m *Manager) List(ctx context.Context) ([]Campaign, Source, error) {
	if m.Online(ctx) {
		campaigns, err := m.API.ListCampaigns(ctx)
		if err == nil {
			return campaigns, SourceAPI, nil
		}
		m.Log.Warn("Failed to list campaigns from API, using local store", zap.Error(err))
	} else {
		m.Log.Info("API unavailable, using local store")
	}

	if err := m.SeedDemo(ctx); err != nil {
		return nil, SourceLocal, err
	}
	campaigns, err := m.Local.List(ctx)
	return campaigns, SourceLocal, err
}

// Create tries the API first; any failure, including a validation rejection,
// stores the campaign locally with the creation defaults instead.
func (m *Manager) Create(ctx context.Context, in CampaignInput) (*Campaign, Source, error) {
	if m.Online(ctx) {
		c, err := m.API.CreateCampaign(ctx, in)
		if err == nil {
			return c, SourceAPI, nil
		}
		m.Log.Warn("Failed to create campaign via API, saving locally", zap.Error(err))
	}

	c := m.newLocalCampaign(in)
	if err := m.Local.Save(ctx, c); err != nil {
		return nil, SourceLocal, fmt.Errorf("save campaign locally: %w", err)
	}
	return &c, SourceLocal, nil
}

// Stats reads the API aggregate when healthy and computes the same figures
// from the local store otherwise.
func (m *Manager) Stats(ctx context.Context) (model.DashboardStats, Source, error) {
	if m.Online(ctx) {
		stats, err := m.API.DashboardStats(ctx)
		if err == nil {
			return stats, SourceAPI, nil
		}
		m.Log.Warn("Failed to fetch dashboard stats from API, computing locally", zap.Error(err))
	}

	local, err := m.Local.List(ctx)
	if err != nil {
		return model.DashboardStats{}, SourceLocal, err
	}
	campaigns := make([]model.Campaign, 0, len(local))
	for _, c := range local {
		campaigns = append(campaigns, c.toModel())
	}
	return model.ComputeDashboardStats(campaigns), SourceLocal, nil
}

// SeedDemo fills an empty local store with the demo campaigns.
func (m *Manager) SeedDemo(ctx context.Context) error {
	existing, err := m.Local.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := m.Now()
	demo := make([]Campaign, 0, len(model.DemoCampaigns))
	for i, d := range model.DemoCampaigns {
		demo = append(demo, Campaign{
			ID:          CampaignID(strconv.Itoa(i + 1)),
			Name:        d.Name,
			Type:        d.Type,
			Description: d.Description,
			Status:      d.Status,
			Sent:        d.Sent,
			Replies:     d.Replies,
			CreatedAt:   now.AddDate(0, 0, -demoAgeDays[i%len(demoAgeDays)]),
		})
	}
	return m.Local.Replace(ctx, demo)
}

func (m *Manager) newLocalCampaign(in CampaignInput) Campaign {
	d := model.NewDraftCampaign(in.Name, model.CampaignType(in.Type), in.Description, m.Now())
	return Campaign{
		ID:          CampaignID(m.NewID()),
		Name:        d.Name,
		Type:        d.Type,
		Description: d.Description,
		Status:      d.Status,
		Sent:        d.Sent,
		Replies:     d.Replies,
		CreatedAt:   d.CreatedAt,
	}
}
