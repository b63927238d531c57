package rating

import (
	"context"

	"Foodloop-Backend/entities"

	"gorm.io/gorm"
)

type (
	RatingRepository interface {
		CreateRating(ctx context.Context, rating *entities.Rating) error
		GetRatingByDonationAndRater(ctx context.Context, donationID, raterID string) (*entities.Rating, error)
		GetUserRatings(ctx context.Context, userID string, page, limit int) ([]*entities.Rating, int64, error)
		GetDonationRatings(ctx context.Context, donationID string) ([]*entities.Rating, error)
		GetUserRatingStats(ctx context.Context, userID string) (float64, int, error)
	}

	ratingRepository struct {
		db *gorm.DB
	}
)

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) CreateRating(ctx context.Context, rating *entities.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepository) GetRatingByDonationAndRater(ctx context.Context, donationID, raterID string) (*entities.Rating, error) {
	var rating entities.Rating
	if err := r.db.WithContext(ctx).
		Where("donation_id = ? AND rating_user = ?", donationID, raterID).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetUserRatings(ctx context.Context, userID string, page, limit int) ([]*entities.Rating, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Rating{}).
		Where("rated_user = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []*entities.Rating
	if err := query.
		Preload("Rater").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&ratings).Error; err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

func (r *ratingRepository) GetDonationRatings(ctx context.Context, donationID string) ([]*entities.Rating, error) {
	var ratings []*entities.Rating
	if err := r.db.WithContext(ctx).
		Preload("Rater").
		Where("donation_id = ?", donationID).
		Order("created_at DESC").
		Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) GetUserRatingStats(ctx context.Context, userID string) (float64, int, error) {
	var stats struct {
		Average float64
		Total   int
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Rating{}).
		Where("rated_user = ?", userID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Scan(&stats).Error; err != nil {
		return 0, 0, err
	}
	return stats.Average, stats.Total, nil
}
