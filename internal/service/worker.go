package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaign-manager/internal/errors"
	"github.com/unclebandit/campaign-manager/internal/metrics"
	"github.com/unclebandit/campaign-manager/internal/model"
	"github.com/unclebandit/campaign-manager/internal/queue"
)

// CampaignReader defines the lookup the worker needs
type CampaignReader interface {
	GetByID(ctx context.Context, id int64) (*model.Campaign, error)
}

// EventHandler receives a change notification together with the campaign's
// current state. current is nil for deletions and for campaigns removed since.
type EventHandler func(ev model.CampaignEvent, current *model.Campaign) error

// EventWorker drains campaign change notifications
type EventWorker struct {
	Campaigns CampaignReader
	Events    <-chan model.CampaignEvent
	Handle    EventHandler
	Log       *zap.Logger
}

func NewEventWorker(repo CampaignReader, events <-chan model.CampaignEvent, handle EventHandler, log *zap.Logger) *EventWorker {
	return &EventWorker{
		Campaigns: repo,
		Events:    events,
		Handle:    handle,
		Log:       log,
	}
}

// Start processes events until the channel is closed or ctx is done.
func (w *EventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			w.process(ctx, ev)
		}
	}
}

func (w *EventWorker) process(ctx context.Context, ev model.CampaignEvent) {
	var current *model.Campaign
	if ev.Type != model.CampaignDeleted {
		c, err := w.Campaigns.GetByID(ctx, ev.CampaignID)
		switch {
		case err == nil:
			current = c
		case appErrors.IsNotFound(err):
			w.Log.Debug("Campaign gone before event was handled", zap.Int64("campaign_id", ev.CampaignID))
		default:
			w.Log.Warn("Failed to load campaign for event",
				zap.Int64("campaign_id", ev.CampaignID),
				zap.Error(err))
		}
	}

	if err := w.Handle(ev, current); err != nil {
		w.Log.Error("Event handler failed",
			zap.String("type", string(ev.Type)),
			zap.Int64("campaign_id", ev.CampaignID),
			zap.Error(err))
	}
}

// EventSink adapts a queue subscription to the worker's channel. It accepts
// in-process CampaignEvent payloads and raw JSON bodies from a broker;
// undecodable payloads are dropped since a retry cannot fix them.
func EventSink(ctx context.Context, events chan<- model.CampaignEvent) func(payload any) error {
	return func(payload any) error {
		var ev model.CampaignEvent
		switch p := payload.(type) {
		case model.CampaignEvent:
			ev = p
		case json.RawMessage:
			if err := json.Unmarshal(p, &ev); err != nil {
				return nil
			}
		default:
			return nil
		}
		select {
		case events <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// NewEventLogger returns a handler that logs each notification and counts it
// in campaign_events_consumed_total.
func NewEventLogger(log *zap.Logger) EventHandler {
	return func(ev model.CampaignEvent, current *model.Campaign) error {
		metrics.EventsConsumedTotal.WithLabelValues(string(ev.Type)).Inc()

		fields := []zap.Field{
			zap.String("type", string(ev.Type)),
			zap.Int64("campaign_id", ev.CampaignID),
			zap.Time("occurred_at", ev.OccurredAt),
		}
		if current != nil {
			fields = append(fields,
				zap.String("status", string(current.Status)),
				zap.Int64("sent", current.Sent),
				zap.Int64("replies", current.Replies),
				zap.Int64("meetings_booked", current.MeetingsBooked()))
		}
		log.Info("Campaign event", fields...)
		return nil
	}
}

// StartEventConsumer subscribes an EventWorker to topic on q and runs it until
// ctx is done.
func StartEventConsumer(ctx context.Context, q queue.Queue, topic string, repo CampaignReader, handle EventHandler, log *zap.Logger) error {
	events := make(chan model.CampaignEvent, 64)
	if err := q.Subscribe(topic, EventSink(ctx, events)); err != nil {
		return err
	}
	go NewEventWorker(repo, events, handle, log).Start(ctx)
	return nil
}
