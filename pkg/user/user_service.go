package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/entities"
	"Foodloop-Backend/internal/utils/mailing"
	"Foodloop-Backend/internal/utils/storage"
	"Foodloop-Backend/pkg/jwt"
	"Foodloop-Backend/pkg/nutrition"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const verificationTokenTTL = 24 * time.Hour

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (*domain.UserResponse, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (*domain.UserResponse, error)
		SendVerificationEmail(ctx context.Context, email string) error
		VerifyEmail(ctx context.Context, token string) error
		GetPublicProfile(ctx context.Context, userID string) (*domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserResponse, error) {
	if req.Role != domain.RoleDonor && req.Role != domain.RoleRecipient {
		return nil, domain.ErrInvalidRole
	}
	if !nutrition.ValidTags(req.DietaryRestrictions) {
		return nil, domain.ErrInvalidDietaryRestriction
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	restrictions, err := json.Marshal(req.DietaryRestrictions)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:                  uuid.New(),
		Email:               req.Email,
		Password:            string(hashed),
		Name:                req.Name,
		Role:                req.Role,
		PhoneNumber:         req.PhoneNumber,
		Location:            req.Location,
		DietaryRestrictions: datatypes.JSON(restrictions),
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sendVerification(ctx, user); err != nil {
		// Registration succeeded, the user can re-request verification.
		log.Printf("failed to send verification email to %s: %v", user.Email, err)
	}

	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCredentialsInvalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return &domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (*domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Location != "" {
		user.Location = req.Location
	}
	if req.Latitude != nil && req.Longitude != nil {
		user.Latitude = req.Latitude
		user.Longitude = req.Longitude
	}
	if req.DietaryRestrictions != nil {
		if !nutrition.ValidTags(req.DietaryRestrictions) {
			return nil, domain.ErrInvalidDietaryRestriction
		}
		restrictions, err := json.Marshal(req.DietaryRestrictions)
		if err != nil {
			return nil, err
		}
		user.DietaryRestrictions = datatypes.JSON(restrictions)
	}

	if req.ProfileImage != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("profile-%s", user.ID.String()),
			req.ProfileImage,
			"profiles",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		user.ProfileImage = s.s3.GetPublicLinkKey(objectKey)
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return toUserResponse(user), nil
}

func (s *userService) SendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if user.Verified {
		return domain.ErrEmailAlreadyVerified
	}

	return s.sendVerification(ctx, user)
}

func (s *userService) sendVerification(ctx context.Context, user *entities.User) error {
	verification := &entities.EmailVerification{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     uuid.New(),
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}

	if err := s.userRepository.CreateEmailVerification(ctx, verification); err != nil {
		return err
	}

	appURL := mailing.LoadMailConfig().AppURL
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to FoodLoop. Please verify your email by clicking "+
			"<a href=\"%s/api/v1/users/verify?token=%s\">this link</a>. "+
			"The link expires in 24 hours.</p>",
		user.Name, appURL, verification.Token.String(),
	)
	return mailing.SendMail(user.Email, "Verify your FoodLoop account", body)
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	verification, err := s.userRepository.GetEmailVerificationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrVerificationNotFound
		}
		return err
	}

	if verification.Verified {
		return domain.ErrEmailAlreadyVerified
	}
	if time.Now().After(verification.ExpiresAt) {
		return domain.ErrVerificationExpired
	}

	now := time.Now()
	if err := s.userRepository.MarkVerificationUsed(ctx, verification.ID.String(), now); err != nil {
		return err
	}
	return s.userRepository.MarkUserVerified(ctx, verification.UserID.String())
}

func (s *userService) GetPublicProfile(ctx context.Context, userID string) (*domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	resp := toUserResponse(user)
	// Public view hides contact details.
	resp.Email = ""
	resp.PhoneNumber = ""
	resp.DietaryRestrictions = nil
	return resp, nil
}

func toUserResponse(user *entities.User) *domain.UserResponse {
	var restrictions []string
	if len(user.DietaryRestrictions) > 0 {
		_ = json.Unmarshal(user.DietaryRestrictions, &restrictions)
	}

	return &domain.UserResponse{
		ID:                  user.ID.String(),
		Email:               user.Email,
		Name:                user.Name,
		Role:                user.Role,
		PhoneNumber:         user.PhoneNumber,
		Bio:                 user.Bio,
		Location:            user.Location,
		Latitude:            user.Latitude,
		Longitude:           user.Longitude,
		ProfileImage:        user.ProfileImage,
		DietaryRestrictions: restrictions,
		Verified:            user.Verified,
		AverageRating:       user.AverageRating,
		TotalRatings:        user.TotalRatings,
		CreatedAt:           user.CreatedAt,
	}
}
