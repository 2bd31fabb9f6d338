package model

// meetingsPerHundredReplies is the fixed reply-to-meeting conversion (28%).
const meetingsPerHundredReplies = 28

// MeetingsBooked returns floor(replies * 0.28). Splitting off the hundreds keeps
// it exact and free of overflow for every non-negative int64.
func MeetingsBooked(replies int64) int64 {
	if replies <= 0 {
		return 0
	}
	return replies/100*meetingsPerHundredReplies + replies%100*meetingsPerHundredReplies/100
}

type DashboardStats struct {
	ActiveCampaigns int64 `json:"activeCampaigns"`
	TotalSent       int64 `json:"totalSent"`
	TotalReplies    int64 `json:"totalReplies"`
	MeetingsBooked  int64 `json:"meetingsBooked"`
}

// CampaignTotals is the raw aggregate read from the store.
type CampaignTotals struct {
	ActiveCampaigns int64 `db:"active_campaigns"`
	TotalSent       int64 `db:"total_sent"`
	TotalReplies    int64 `db:"total_replies"`
}

func NewDashboardStats(t CampaignTotals) DashboardStats {
	return DashboardStats{
		ActiveCampaigns: t.ActiveCampaigns,
		TotalSent:       t.TotalSent,
		TotalReplies:    t.TotalReplies,
		MeetingsBooked:  MeetingsBooked(t.TotalReplies),
	}
}

// ComputeDashboardStats reduces an in-memory campaign set the same way the
// store aggregate does.
func ComputeDashboardStats(campaigns []Campaign) DashboardStats {
	var t CampaignTotals
	for _, c := range campaigns {
		if c.Status == CampaignStatusActive {
			t.ActiveCampaigns++
		}
		t.TotalSent += c.Sent
		t.TotalReplies += c.Replies
	}
	return NewDashboardStats(t)
}
