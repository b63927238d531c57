package user

import (
	"context"
	"time"

	"Foodloop-Backend/entities"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		MarkUserVerified(ctx context.Context, userID string) error
		UpdateRatingAggregate(ctx context.Context, userID string, average float64, total int) error
		FindVerifiedRecipients(ctx context.Context, limit int) ([]*entities.User, error)

		CreateEmailVerification(ctx context.Context, verification *entities.EmailVerification) error
		GetEmailVerificationByToken(ctx context.Context, token string) (*entities.EmailVerification, error)
		MarkVerificationUsed(ctx context.Context, id string, verifiedAt time.Time) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) MarkUserVerified(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Update("verified", true).Error
}

func (r *userRepository) UpdateRatingAggregate(ctx context.Context, userID string, average float64, total int) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"average_rating": average,
			"total_ratings":  total,
		}).Error
}

func (r *userRepository) FindVerifiedRecipients(ctx context.Context, limit int) ([]*entities.User, error) {
	var users []*entities.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND verified = ?", "recipient", true).
		Order("updated_at DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CreateEmailVerification(ctx context.Context, verification *entities.EmailVerification) error {
	return r.db.WithContext(ctx).Create(verification).Error
}

func (r *userRepository) GetEmailVerificationByToken(ctx context.Context, token string) (*entities.EmailVerification, error) {
	var verification entities.EmailVerification
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&verification).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *userRepository) MarkVerificationUsed(ctx context.Context, id string, verifiedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.EmailVerification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verified":    true,
			"verified_at": verifiedAt,
		}).Error
}
