package analytics

import (
	"context"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/entities"

	"gorm.io/gorm"
)

type (
	AnalyticsRepository interface {
		CountUsersByRole(ctx context.Context) (total, donors, recipients int64, err error)
		CountDonationsByStatus(ctx context.Context) (total, active, completed int64, err error)
		GetCategoryBreakdown(ctx context.Context) (map[string]int64, error)
		GetDailyImpact(ctx context.Context, userID string, since time.Time) ([]*entities.NutritionImpact, error)
		GetDonationTrends(ctx context.Context, since time.Time) ([]domain.TrendPoint, error)
	}

	analyticsRepository struct {
		db *gorm.DB
	}
)

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountUsersByRole(ctx context.Context) (total, donors, recipients int64, err error) {
	users := r.db.WithContext(ctx).Model(&entities.User{})
	if err = users.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return
	}
	if err = users.Session(&gorm.Session{}).Where("role = ?", domain.RoleDonor).Count(&donors).Error; err != nil {
		return
	}
	err = users.Session(&gorm.Session{}).Where("role = ?", domain.RoleRecipient).Count(&recipients).Error
	return
}

func (r *analyticsRepository) CountDonationsByStatus(ctx context.Context) (total, active, completed int64, err error) {
	donations := r.db.WithContext(ctx).Model(&entities.Donation{})
	if err = donations.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return
	}
	if err = donations.Session(&gorm.Session{}).
		Where("status IN ?", []string{entities.DonationAvailable, entities.DonationClaimed}).
		Count(&active).Error; err != nil {
		return
	}
	err = donations.Session(&gorm.Session{}).
		Where("status = ?", entities.DonationCompleted).
		Count(&completed).Error
	return
}

func (r *analyticsRepository) GetCategoryBreakdown(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		FoodCategory string
		Count        int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Select("food_category, COUNT(*) AS count").
		Group("food_category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	breakdown := make(map[string]int64, len(rows))
	for _, row := range rows {
		breakdown[row.FoodCategory] = row.Count
	}
	return breakdown, nil
}

func (r *analyticsRepository) GetDailyImpact(ctx context.Context, userID string, since time.Time) ([]*entities.NutritionImpact, error) {
	var impacts []*entities.NutritionImpact
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&impacts).Error; err != nil {
		return nil, err
	}
	return impacts, nil
}

func (r *analyticsRepository) GetDonationTrends(ctx context.Context, since time.Time) ([]domain.TrendPoint, error) {
	var rows []struct {
		Day       time.Time
		Created   int64
		Completed int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Select("DATE_TRUNC('day', created_at) AS day, COUNT(*) AS created, COUNT(*) FILTER (WHERE status = ?) AS completed", entities.DonationCompleted).
		Where("created_at >= ?", since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]domain.TrendPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, domain.TrendPoint{
			Date:      row.Day,
			Created:   row.Created,
			Completed: row.Completed,
		})
	}
	return points, nil
}
