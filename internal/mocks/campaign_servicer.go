// Package mocks holds testify mocks shared by the HTTP layer tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/unclebandit/campaign-manager/internal/model"
	"github.com/unclebandit/campaign-manager/internal/service"
)

// CampaignServicer is a mock implementation of service.CampaignServicer
type CampaignServicer struct {
	mock.Mock
}

func (m *CampaignServicer) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Campaign), args.Error(1)
}

func (m *CampaignServicer) GetCampaign(ctx context.Context, id int64) (*model.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *CampaignServicer) CreateCampaign(ctx context.Context, draft model.CampaignDraft) (*model.Campaign, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *CampaignServicer) UpdateCampaign(ctx context.Context, id int64, update model.CampaignUpdate) (*model.Campaign, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *CampaignServicer) PatchCampaign(ctx context.Context, id int64, patch model.CampaignPatch) (*model.Campaign, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *CampaignServicer) DeleteCampaign(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CampaignServicer) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.DashboardStats), args.Error(1)
}

func (m *CampaignServicer) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ service.CampaignServicer = (*CampaignServicer)(nil)
