package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCreateDonation   = "donation created successfully"
	MessageSuccessGetDonations     = "donations retrieved successfully"
	MessageSuccessUpdateDonation   = "donation updated successfully"
	MessageSuccessClaimDonation    = "donation claimed successfully"
	MessageSuccessCompleteDonation = "donation completed successfully"
	MessageSuccessCancelDonation   = "donation cancelled successfully"

	MessageFailedCreateDonation   = "failed to create donation"
	MessageFailedGetDonations     = "failed to retrieve donations"
	MessageFailedUpdateDonation   = "failed to update donation"
	MessageFailedClaimDonation    = "failed to claim donation"
	MessageFailedCompleteDonation = "failed to complete donation"
	MessageFailedCancelDonation   = "failed to cancel donation"

	ErrDonationNotFound           = errors.New("donation not found")
	ErrUnauthorizedDonationAccess = errors.New("unauthorized access to donation")
	ErrOnlyDonorsCanDonate        = errors.New("only donors can create donations")
	ErrOnlyRecipientsCanClaim     = errors.New("only recipients can claim donations")
	ErrUserNotVerified            = errors.New("please verify your email first")
	ErrDonationNotAvailable       = errors.New("this donation is no longer available")
	ErrDonationExpired            = errors.New("this donation has expired")
	ErrPickupWindowPassed         = errors.New("the pickup window has passed")
	ErrTooManyActiveClaims        = errors.New("too many active claims, please complete some pickups first")
	ErrOnlyClaimedCanComplete     = errors.New("only claimed donations can be completed")
	ErrCannotCancelDonation       = errors.New("completed or expired donations cannot be cancelled")
	ErrDonationNotEditable        = errors.New("only available donations can be edited")
	ErrInvalidExpiryDatetime      = errors.New("expiry date and time must be in the future")
	ErrExpiryTooFarInFuture       = errors.New("expiry date cannot be more than 1 year in the future")
	ErrInvalidPickupWindow        = errors.New("pickup end time must be after pickup start time and before expiry")
	ErrPickupWindowTooLong        = errors.New("pickup window cannot exceed 48 hours")
	ErrInvalidQuantity            = errors.New("quantity must be between 1 and 1000")
	ErrInvalidFoodCategory        = errors.New("invalid food category")
	ErrInvalidDietaryTags         = errors.New("invalid dietary tags")
)

type (
	DonationRequest struct {
		Title             string                `json:"title" validate:"required,max=200"`
		Description       string                `json:"description" validate:"required"`
		FoodCategory      string                `json:"food_category" validate:"required,oneof=fruits vegetables grains protein dairy prepared pantry beverages other"`
		Quantity          int                   `json:"quantity" validate:"required,min=1,max=1000"`
		ExpiryDatetime    time.Time             `json:"expiry_datetime" validate:"required"`
		PickupStart       time.Time             `json:"pickup_start" validate:"required"`
		PickupEnd         time.Time             `json:"pickup_end" validate:"required"`
		PickupLocation    string                `json:"pickup_location" validate:"required,max=255"`
		Latitude          *float64              `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
		Longitude         *float64              `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
		DietaryTags       []string              `json:"dietary_tags" validate:"omitempty"`
		EstimatedCalories *int                  `json:"estimated_calories,omitempty" validate:"omitempty,min=0"`
		IngredientsList   string                `json:"ingredients_list,omitempty"`
		AllergenInfo      string                `json:"allergen_info,omitempty"`
		Image             *multipart.FileHeader `json:"image" form:"image"`
	}

	UpdateDonationRequest struct {
		Title             string   `json:"title,omitempty" validate:"omitempty,max=200"`
		Description       string   `json:"description,omitempty"`
		Quantity          int      `json:"quantity,omitempty" validate:"omitempty,min=1,max=1000"`
		PickupLocation    string   `json:"pickup_location,omitempty" validate:"omitempty,max=255"`
		DietaryTags       []string `json:"dietary_tags,omitempty"`
		EstimatedCalories *int     `json:"estimated_calories,omitempty" validate:"omitempty,min=0"`
		IngredientsList   string   `json:"ingredients_list,omitempty"`
		AllergenInfo      string   `json:"allergen_info,omitempty"`
	}

	SearchDonationsRequest struct {
		Query             string   `json:"q"`
		FoodCategory      string   `json:"food_category" validate:"omitempty,oneof=fruits vegetables grains protein dairy prepared pantry beverages other"`
		MaxCalories       int      `json:"max_calories" validate:"omitempty,min=0"`
		MinNutritionScore int      `json:"min_nutrition_score" validate:"omitempty,min=0,max=100"`
		DietaryTags       []string `json:"dietary_tags"`
	}

	Donation struct {
		ID                string     `json:"id"`
		DonorID           string     `json:"donor_id"`
		DonorName         string     `json:"donor_name,omitempty"`
		DonorRating       float64    `json:"donor_rating,omitempty"`
		RecipientID       string     `json:"recipient_id,omitempty"`
		RecipientName     string     `json:"recipient_name,omitempty"`
		Title             string     `json:"title"`
		Description       string     `json:"description"`
		FoodCategory      string     `json:"food_category"`
		Quantity          int        `json:"quantity"`
		Status            string     `json:"status"`
		ExpiryDatetime    time.Time  `json:"expiry_datetime"`
		PickupStart       time.Time  `json:"pickup_start"`
		PickupEnd         time.Time  `json:"pickup_end"`
		PickupLocation    string     `json:"pickup_location"`
		Latitude          *float64   `json:"latitude,omitempty"`
		Longitude         *float64   `json:"longitude,omitempty"`
		ImageURL          string     `json:"image_url,omitempty"`
		DietaryTags       []string   `json:"dietary_tags"`
		EstimatedCalories *int       `json:"estimated_calories,omitempty"`
		NutritionScore    int        `json:"nutrition_score"`
		IngredientsList   string     `json:"ingredients_list,omitempty"`
		AllergenInfo      string     `json:"allergen_info,omitempty"`
		ClaimedAt         *time.Time `json:"claimed_at,omitempty"`
		CompletedAt       *time.Time `json:"completed_at,omitempty"`
		CreatedAt         time.Time  `json:"created_at"`
		UpdatedAt         time.Time  `json:"updated_at"`

		// Set on claim responses when the donation does not fully match the
		// recipient's dietary preferences.
		DietaryNote string `json:"dietary_note,omitempty"`
	}

	DonationStats struct {
		Role              string  `json:"role"`
		TotalDonations    int64   `json:"total_donations"`
		CompletedDonations int64  `json:"completed_donations"`
		ActiveDonations   int64   `json:"active_donations"`
		TotalCalories     int64   `json:"total_calories"`
		AvgNutritionScore float64 `json:"avg_nutrition_score"`
		CompletionRate    float64 `json:"completion_rate"`
	}
)
