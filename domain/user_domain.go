package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetUser          = "user retrieved successfully"
	MessageSuccessUpdateUser       = "user updated successfully"
	MessageSuccessSendVerification = "verification email sent"
	MessageSuccessVerifyEmail      = "email verified successfully"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUser          = "failed to retrieve user"
	MessageFailedUpdateUser       = "failed to update user"
	MessageFailedSendVerification = "failed to send verification email"
	MessageFailedVerifyEmail      = "failed to verify email"

	ErrEmailAlreadyExists       = errors.New("email already registered")
	ErrUserNotFound             = errors.New("user not found")
	ErrCredentialsInvalid       = errors.New("invalid email or password")
	ErrInvalidRole              = errors.New("role must be donor or recipient")
	ErrVerificationNotFound     = errors.New("verification token not found")
	ErrVerificationExpired      = errors.New("verification token has expired")
	ErrEmailAlreadyVerified     = errors.New("email already verified")
	ErrInvalidDietaryRestriction = errors.New("invalid dietary restriction")
)

type (
	RegisterRequest struct {
		Email               string   `json:"email" validate:"required,email"`
		Password            string   `json:"password" validate:"required,min=8"`
		Name                string   `json:"name" validate:"required,max=100"`
		Role                string   `json:"role" validate:"required,oneof=donor recipient"`
		PhoneNumber         string   `json:"phone_number,omitempty"`
		Location            string   `json:"location,omitempty" validate:"omitempty,max=255"`
		DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UpdateUserRequest struct {
		Name                string                `json:"name,omitempty" validate:"omitempty,max=100"`
		PhoneNumber         string                `json:"phone_number,omitempty"`
		Bio                 string                `json:"bio,omitempty" validate:"omitempty,max=500"`
		Location            string                `json:"location,omitempty" validate:"omitempty,max=255"`
		Latitude            *float64              `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
		Longitude           *float64              `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
		DietaryRestrictions []string              `json:"dietary_restrictions,omitempty"`
		ProfileImage        *multipart.FileHeader `json:"profile_image" form:"profile_image"`
	}

	SendVerificationRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	UserResponse struct {
		ID                  string    `json:"id"`
		Email               string    `json:"email"`
		Name                string    `json:"name"`
		Role                string    `json:"role"`
		PhoneNumber         string    `json:"phone_number,omitempty"`
		Bio                 string    `json:"bio,omitempty"`
		Location            string    `json:"location,omitempty"`
		Latitude            *float64  `json:"latitude,omitempty"`
		Longitude           *float64  `json:"longitude,omitempty"`
		ProfileImage        string    `json:"profile_image,omitempty"`
		DietaryRestrictions []string  `json:"dietary_restrictions,omitempty"`
		Verified            bool      `json:"verified"`
		AverageRating       float64   `json:"average_rating"`
		TotalRatings        int       `json:"total_ratings"`
		CreatedAt           time.Time `json:"created_at"`
	}
)
