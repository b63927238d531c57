package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetAnalytics = "analytics retrieved successfully"
	MessageFailedGetAnalytics  = "failed to retrieve analytics"

	ErrInvalidTrendRange = errors.New("trend range must be between 1 and 365 days")
)

type (
	PlatformOverview struct {
		TotalUsers         int64            `json:"total_users"`
		TotalDonors        int64            `json:"total_donors"`
		TotalRecipients    int64            `json:"total_recipients"`
		TotalDonations     int64            `json:"total_donations"`
		ActiveDonations    int64            `json:"active_donations"`
		CompletedDonations int64            `json:"completed_donations"`
		CompletionRate     float64          `json:"completion_rate"`
		CategoryBreakdown  map[string]int64 `json:"category_breakdown"`
	}

	UserAnalytics struct {
		Stats       DonationStats     `json:"stats"`
		DailyImpact []DailyImpact     `json:"daily_impact"`
	}

	DailyImpact struct {
		Date              time.Time `json:"date"`
		DonationsMade     int       `json:"donations_made"`
		DonationsReceived int       `json:"donations_received"`
		TotalCalories     int       `json:"total_calories"`
	}

	TrendPoint struct {
		Date      time.Time `json:"date"`
		Created   int64     `json:"created"`
		Completed int64     `json:"completed"`
	}

	DonationTrends struct {
		Days   int          `json:"days"`
		Points []TrendPoint `json:"points"`
	}
)
