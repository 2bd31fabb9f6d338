package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaign-manager/internal/errors"
	"github.com/unclebandit/campaign-manager/internal/model"
	"github.com/unclebandit/campaign-manager/internal/service"
)

// MockCampaignRepo stores campaigns in memory
type MockCampaignRepo struct {
	campaigns map[int64]*model.Campaign
	mu        sync.Mutex
}

func (m *MockCampaignRepo) GetByID(ctx context.Context, id int64) (*model.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	return c, nil
}

func TestWorker(t *testing.T) {
	repo := &MockCampaignRepo{
		campaigns: map[int64]*model.Campaign{
			1: {ID: 1, Status: model.CampaignStatusActive, Sent: 100, Replies: 50},
		},
	}

	jobChan := make(chan model.CampaignEvent, 2)
	jobChan <- model.CampaignEvent{Type: model.CampaignUpdated, CampaignID: 1}
	jobChan <- model.CampaignEvent{Type: model.CampaignDeleted, CampaignID: 2}

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	seen := map[int64]*model.Campaign{}
	counted := service.NewEventLogger(zap.NewNop())

	worker := service.NewEventWorker(repo, jobChan, func(ev model.CampaignEvent, current *model.Campaign) error {
		defer wg.Done()
		mu.Lock()
		seen[ev.CampaignID] = current
		mu.Unlock()
		return counted(ev, current)
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Start(ctx)

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not process events")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, seen[1])
	assert.Equal(t, int64(14), seen[1].MeetingsBooked())
	assert.Nil(t, seen[2])
}
