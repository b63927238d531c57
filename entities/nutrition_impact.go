package entities

import (
	"time"

	"github.com/google/uuid"
)

// NutritionImpact aggregates one user's completed exchanges per day.
type NutritionImpact struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"index;uniqueIndex:idx_user_date" json:"user_id"`
	Date   time.Time `gorm:"type:date;uniqueIndex:idx_user_date" json:"date"`

	DonationsMade     int     `json:"donations_made"`
	DonationsReceived int     `json:"donations_received"`
	TotalCalories     int     `json:"total_calories"`
	AvgNutritionScore float64 `json:"avg_nutrition_score"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
