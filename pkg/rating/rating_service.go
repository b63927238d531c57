package rating

import (
	"context"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/entities"
	"Foodloop-Backend/pkg/donation"
	"Foodloop-Backend/pkg/notification"
	"Foodloop-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ratingWindow is how long after completion a pickup can still be rated.
const ratingWindow = 30 * 24 * time.Hour

type (
	RatingService interface {
		CreateRating(ctx context.Context, req domain.RatingRequest, raterID string) (*domain.Rating, error)
		GetUserRatings(ctx context.Context, userID string, page, limit int) ([]domain.Rating, int64, error)
		GetDonationRatings(ctx context.Context, donationID string) ([]domain.Rating, error)
	}

	ratingService struct {
		ratingRepository    RatingRepository
		donationRepository  donation.DonationRepository
		userRepository      user.UserRepository
		notificationService notification.NotificationService
	}
)

func NewRatingService(
	ratingRepository RatingRepository,
	donationRepository donation.DonationRepository,
	userRepository user.UserRepository,
	notificationService notification.NotificationService,
) RatingService {
	return &ratingService{
		ratingRepository:    ratingRepository,
		donationRepository:  donationRepository,
		userRepository:      userRepository,
		notificationService: notificationService,
	}
}

func (s *ratingService) CreateRating(ctx context.Context, req domain.RatingRequest, raterID string) (*domain.Rating, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.ErrInvalidRatingValue
	}

	rater, err := s.userRepository.GetUserByID(ctx, raterID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	target, err := s.donationRepository.GetDonationByID(ctx, req.DonationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	if target.Status != entities.DonationCompleted {
		return nil, domain.ErrRatingNotCompleted
	}
	if target.CompletedAt == nil || time.Since(*target.CompletedAt) > ratingWindow {
		return nil, domain.ErrRatingWindowClosed
	}
	if target.RecipientID == nil {
		return nil, domain.ErrRatingNoRecipient
	}

	// The donor rates the recipient and vice versa, nobody else.
	var ratedUser uuid.UUID
	switch rater.ID {
	case target.DonorID:
		ratedUser = *target.RecipientID
	case *target.RecipientID:
		ratedUser = target.DonorID
	default:
		return nil, domain.ErrRatingNotAllowed
	}
	if ratedUser == rater.ID {
		return nil, domain.ErrRatingSelf
	}

	if _, err := s.ratingRepository.GetRatingByDonationAndRater(ctx, req.DonationID, raterID); err == nil {
		return nil, domain.ErrAlreadyRated
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	rating := &entities.Rating{
		DonationID: target.ID,
		RatingUser: rater.ID,
		RatedUser:  ratedUser,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.ratingRepository.CreateRating(ctx, rating); err != nil {
		return nil, err
	}

	average, total, err := s.ratingRepository.GetUserRatingStats(ctx, ratedUser.String())
	if err == nil {
		err = s.userRepository.UpdateRatingAggregate(ctx, ratedUser.String(), average, total)
	}
	if err != nil {
		return nil, err
	}

	s.notificationService.NotifyRatingReceived(ctx, ratedUser, rater.Name, req.Rating, target.ID)

	response := toRatingResponse(rating)
	response.RaterName = rater.Name
	return &response, nil
}

func (s *ratingService) GetUserRatings(ctx context.Context, userID string, page, limit int) ([]domain.Rating, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	ratings, total, err := s.ratingRepository.GetUserRatings(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toRatingResponses(ratings), total, nil
}

func (s *ratingService) GetDonationRatings(ctx context.Context, donationID string) ([]domain.Rating, error) {
	ratings, err := s.ratingRepository.GetDonationRatings(ctx, donationID)
	if err != nil {
		return nil, err
	}
	return toRatingResponses(ratings), nil
}

func toRatingResponses(ratings []*entities.Rating) []domain.Rating {
	result := make([]domain.Rating, 0, len(ratings))
	for _, r := range ratings {
		result = append(result, toRatingResponse(r))
	}
	return result
}

func toRatingResponse(r *entities.Rating) domain.Rating {
	response := domain.Rating{
		ID:         r.ID.String(),
		DonationID: r.DonationID.String(),
		RatingUser: r.RatingUser.String(),
		RatedUser:  r.RatedUser.String(),
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
	if r.Rater != nil {
		response.RaterName = r.Rater.Name
	}
	return response
}
