package entities

import (
	"github.com/google/uuid"
)

type Rating struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonationID  uuid.UUID `gorm:"index;uniqueIndex:idx_donation_rater" json:"donation_id"`
	RatingUser  uuid.UUID `gorm:"index;uniqueIndex:idx_donation_rater" json:"rating_user"`
	RatedUser   uuid.UUID `gorm:"index" json:"rated_user"`
	Rating      int       `json:"rating"` // 1-5 stars
	Comment     string    `json:"comment,omitempty"`

	Donation *Donation `gorm:"foreignKey:DonationID"`
	Rater    *User     `gorm:"foreignKey:RatingUser"`
	Rated    *User     `gorm:"foreignKey:RatedUser"`
	Timestamp
}
