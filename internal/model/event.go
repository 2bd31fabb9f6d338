package model

import "time"

type CampaignEventType string

const (
	CampaignCreated CampaignEventType = "campaign.created"
	CampaignUpdated CampaignEventType = "campaign.updated"
	CampaignPatched CampaignEventType = "campaign.patched"
	CampaignDeleted CampaignEventType = "campaign.deleted"
)

// CampaignEvent is the change notification published after a committed mutation.
type CampaignEvent struct {
	Type       CampaignEventType `json:"type"`
	CampaignID int64             `json:"campaign_id"`
	Status     CampaignStatus    `json:"status,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
