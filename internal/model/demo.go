package model

// DemoCampaigns is the fixture set loaded into an empty store, server side or
// in a client's local store.
var DemoCampaigns = []Campaign{
	{
		Name:        "Q4 Product Launch",
		Type:        CampaignTypeEmail,
		Description: "Launch campaign for new product features",
		Status:      CampaignStatusActive,
		Sent:        1250,
		Replies:     342,
	},
	{
		Name:        "Customer Feedback Survey",
		Type:        CampaignTypeWhatsApp,
		Description: "Collecting feedback from active customers",
		Status:      CampaignStatusActive,
		Sent:        850,
		Replies:     215,
	},
	{
		Name:        "Holiday Promotion",
		Type:        CampaignTypeEmail,
		Description: "Special holiday discount announcement",
		Status:      CampaignStatusCompleted,
		Sent:        2100,
		Replies:     523,
	},
	{
		Name:        "New Feature Announcement",
		Type:        CampaignTypeEmail,
		Description: "Announcing new dashboard features",
		Status:      CampaignStatusDraft,
		Sent:        0,
		Replies:     0,
	},
}
