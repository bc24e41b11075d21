package models

// DashboardStats holds the headline counts shown on the dashboard
type DashboardStats struct {
	TotalParticipants int64 `json:"total_participants"`
	TotalReferrals    int64 `json:"total_referrals"`
	PendingReferrals  int64 `json:"pending_referrals"`
	ActiveCases       int64 `json:"active_cases"`
	CompletedCases    int64 `json:"completed_cases"`
	WaitlistedCases   int64 `json:"waitlisted_cases"`
}

// Dashboard combines the stat counts with recent activity. RecentReferrals
// is empty for actors below coordinator.
type Dashboard struct {
	Stats           DashboardStats         `json:"stats"`
	RecentCases     []*CaseWithParticipant `json:"recent_cases"`
	RecentReferrals []*Referral            `json:"recent_referrals"`
}
