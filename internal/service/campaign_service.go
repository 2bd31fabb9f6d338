// internal/service/campaign_service.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/metrics"
	"github.com/unclebandit/campaign-manager/internal/model"
	"github.com/unclebandit/campaign-manager/internal/queue"
	"github.com/unclebandit/campaign-manager/internal/repository"
)

// CampaignServicer is what the HTTP layer depends on.
type CampaignServicer interface {
	ListCampaigns(ctx context.Context) ([]model.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (*model.Campaign, error)
	CreateCampaign(ctx context.Context, draft model.CampaignDraft) (*model.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, update model.CampaignUpdate) (*model.Campaign, error)
	PatchCampaign(ctx context.Context, id int64, patch model.CampaignPatch) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, id int64) error
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	Health(ctx context.Context) error
}

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Queue        queue.Queue
	Log          *zap.Logger
	Now          func() time.Time
	// Topic receives change notifications; defaults to queue.TopicCampaignEvents.
	Topic        string
}

func NewCampaignService(repo repository.CampaignRepositoryInterface, q queue.Queue, log *zap.Logger) *CampaignService {
	return &CampaignService{
		CampaignRepo: repo,
		Queue:        q,
		Log:          log,
		Now:          time.Now,
		Topic:        queue.TopicCampaignEvents,
	}
}

// ListCampaigns returns every campaign, newest first
func (s *CampaignService) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	return s.CampaignRepo.List(ctx)
}

func (s *CampaignService) GetCampaign(ctx context.Context, id int64) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(ctx, id)
}

// CreateCampaign validates the draft and stores it as Draft with zeroed
// counters, whatever else the client sent.
func (s *CampaignService) CreateCampaign(ctx context.Context, draft model.CampaignDraft) (*model.Campaign, error) {
	if err := ValidateDraft(draft); err != nil {
		return nil, err
	}

	c := model.NewDraftCampaign(draft.Name.Value, model.CampaignType(draft.Type.Value), draft.Description.Value, s.Now())
	if err := s.CampaignRepo.Create(ctx, &c); err != nil {
		return nil, err
	}

	s.notify(model.CampaignCreated, &c, "create")
	return &c, nil
}

// UpdateCampaign applies a full-replace update of name/type/description/status.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id int64, update model.CampaignUpdate) (*model.Campaign, error) {
	changes, err := UpdateChanges(update)
	if err != nil {
		return nil, err
	}

	c, err := s.CampaignRepo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.notify(model.CampaignUpdated, c, "update")
	return c, nil
}

// PatchCampaign applies a status and/or counter patch.
func (s *CampaignService) PatchCampaign(ctx context.Context, id int64, patch model.CampaignPatch) (*model.Campaign, error) {
	changes, err := PatchChanges(patch)
	if err != nil {
		return nil, err
	}

	c, err := s.CampaignRepo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.notify(model.CampaignPatched, c, "patch")
	return c, nil
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, id int64) error {
	if err := s.CampaignRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(model.CampaignDeleted, &model.Campaign{ID: id}, "delete")
	return nil
}

// DashboardStats recomputes the four dashboard figures from the current data.
func (s *CampaignService) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	totals, err := s.CampaignRepo.DashboardTotals(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return model.NewDashboardStats(totals), nil
}

// Health reports whether the store answers.
func (s *CampaignService) Health(ctx context.Context) error {
	return s.CampaignRepo.Ping(ctx)
}

// notify publishes a change notification. Failures are logged only; the
// mutation has already been committed.
func (s *CampaignService) notify(typ model.CampaignEventType, c *model.Campaign, op string) {
	metrics.MutationsTotal.WithLabelValues(op).Inc()

	if s.Queue == nil {
		return
	}
	ev := model.CampaignEvent{
		Type:       typ,
		CampaignID: c.ID,
		Status:     c.Status,
		OccurredAt: s.Now(),
	}
	topic := s.Topic
	if topic == "" {
		topic = queue.TopicCampaignEvents
	}
	if err := s.Queue.Publish(topic, ev); err != nil {
		s.Log.Warn("Failed to publish campaign event",
			zap.String("type", string(typ)),
			zap.Int64("campaign_id", c.ID),
			zap.Error(err))
	}
}

var _ CampaignServicer = (*CampaignService)(nil)
