// internal/model/campaign.go
package model

import (
	"strings"
	"time"
)

type CampaignType string

const (
	CampaignTypeEmail    CampaignType = "Email"
	CampaignTypeWhatsApp CampaignType = "WhatsApp"
)

func (t CampaignType) Valid() bool {
	return t == CampaignTypeEmail || t == CampaignTypeWhatsApp
}

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "Draft"
	CampaignStatusActive    CampaignStatus = "Active"
	CampaignStatusCompleted CampaignStatus = "Completed"
)

// Valid reports membership in the status enum. Any status may follow any other.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusCompleted:
		return true
	}
	return false
}

type Campaign struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Type        CampaignType   `db:"type" json:"type"`
	Description string         `db:"description" json:"description"`
	Status      CampaignStatus `db:"status" json:"status"`
	Sent        int64          `db:"sent" json:"sent"`
	Replies     int64          `db:"replies" json:"replies"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewDraftCampaign applies the creation defaults: Draft status, zeroed counters,
// trimmed text and both timestamps set to now.
func NewDraftCampaign(name string, typ CampaignType, description string, now time.Time) Campaign {
	return Campaign{
		Name:        strings.TrimSpace(name),
		Type:        typ,
		Description: strings.TrimSpace(description),
		Status:      CampaignStatusDraft,
		Sent:        0,
		Replies:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MeetingsBooked is the per-campaign view of the dashboard heuristic.
func (c Campaign) MeetingsBooked() int64 {
	return MeetingsBooked(c.Replies)
}

// CampaignChanges lists the columns an update writes. A nil pointer leaves the
// stored value untouched.
type CampaignChanges struct {
	Name        *string
	Type        *CampaignType
	Description *string
	Status      *CampaignStatus
	Sent        *int64
	Replies     *int64
}

func (c CampaignChanges) Empty() bool {
	return c.Name == nil && c.Type == nil && c.Description == nil &&
		c.Status == nil && c.Sent == nil && c.Replies == nil
}

// Apply copies the set fields onto a campaign and stamps UpdatedAt.
func (c CampaignChanges) Apply(dst *Campaign, now time.Time) {
	if c.Name != nil {
		dst.Name = *c.Name
	}
	if c.Type != nil {
		dst.Type = *c.Type
	}
	if c.Description != nil {
		dst.Description = *c.Description
	}
	if c.Status != nil {
		dst.Status = *c.Status
	}
	if c.Sent != nil {
		dst.Sent = *c.Sent
	}
	if c.Replies != nil {
		dst.Replies = *c.Replies
	}
	dst.UpdatedAt = now
}
