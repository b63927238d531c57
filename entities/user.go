package entities

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	Password     string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `gorm:"index" json:"role"` // donor or recipient
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Location     string    `json:"location,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`

	// Lifestyle tags the user requires plus allergens they must avoid.
	DietaryRestrictions datatypes.JSON `gorm:"type:jsonb" json:"dietary_restrictions,omitempty"`

	Verified bool `gorm:"index" json:"verified"`

	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`

	Donations        []*Donation `gorm:"foreignKey:DonorID"`
	ClaimedDonations []*Donation `gorm:"foreignKey:RecipientID"`
	Timestamp
}
