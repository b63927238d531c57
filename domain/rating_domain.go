package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateRating = "rating submitted successfully"
	MessageSuccessGetRatings   = "ratings retrieved successfully"

	MessageFailedCreateRating = "failed to submit rating"
	MessageFailedGetRatings   = "failed to retrieve ratings"

	ErrRatingNotAllowed      = errors.New("you cannot rate this donation")
	ErrRatingNotCompleted    = errors.New("only completed donations can be rated")
	ErrRatingWindowClosed    = errors.New("the rating window for this donation has closed")
	ErrRatingSelf            = errors.New("you cannot rate yourself")
	ErrInvalidRatingValue    = errors.New("rating must be between 1 and 5")
	ErrRatingNoRecipient     = errors.New("no recipient to rate")
	ErrAlreadyRated          = errors.New("you have already rated this donation")
)

type (
	RatingRequest struct {
		DonationID string `json:"donation_id" validate:"required,uuid"`
		Rating     int    `json:"rating" validate:"required,min=1,max=5"`
		Comment    string `json:"comment,omitempty" validate:"omitempty,max=500"`
	}

	Rating struct {
		ID          string    `json:"id"`
		DonationID  string    `json:"donation_id"`
		RatingUser  string    `json:"rating_user"`
		RaterName   string    `json:"rater_name,omitempty"`
		RatedUser   string    `json:"rated_user"`
		Rating      int       `json:"rating"`
		Comment     string    `json:"comment,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}
)
