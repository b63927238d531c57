package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Donation status values. Transitions only follow:
// Available -> Claimed -> Completed, Available/Claimed -> Cancelled,
// Available -> Expired. Completed, Cancelled and Expired are terminal.
const (
	DonationAvailable = "Available"
	DonationClaimed   = "Claimed"
	DonationCompleted = "Completed"
	DonationCancelled = "Cancelled"
	DonationExpired   = "Expired"
)

type Donation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorID     uuid.UUID  `gorm:"index" json:"donor_id"`
	RecipientID *uuid.UUID `gorm:"index" json:"recipient_id,omitempty"`

	Title        string `gorm:"index" json:"title"`
	Description  string `json:"description"`
	FoodCategory string `gorm:"index" json:"food_category"`
	Quantity     int    `json:"quantity"`

	Status         string    `gorm:"index" json:"status"`
	ExpiryDatetime time.Time `gorm:"index" json:"expiry_datetime"`
	PickupStart    time.Time `json:"pickup_start"`
	PickupEnd      time.Time `json:"pickup_end"`

	PickupLocation string   `json:"pickup_location"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`

	DietaryTags       datatypes.JSON `gorm:"type:jsonb" json:"dietary_tags,omitempty"`
	EstimatedCalories *int           `json:"estimated_calories,omitempty"`
	NutritionScore    int            `json:"nutrition_score"`
	IngredientsList   string         `json:"ingredients_list,omitempty"`
	AllergenInfo      string         `json:"allergen_info,omitempty"`

	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Donor     *User     `gorm:"foreignKey:DonorID"`
	Recipient *User     `gorm:"foreignKey:RecipientID"`
	Ratings   []*Rating `gorm:"foreignKey:DonationID"`
	Timestamp
}

func (d *Donation) IsExpired(now time.Time) bool {
	return !now.Before(d.ExpiryDatetime)
}

func (d *Donation) IsPickupOverdue(now time.Time) bool {
	return now.After(d.PickupEnd)
}
