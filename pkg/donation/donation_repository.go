package donation

import (
	"context"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	DonationRepository interface {
		// Transaction runs fn against a repository bound to a database
		// transaction. The transaction commits when fn returns nil and
		// rolls back otherwise.
		Transaction(ctx context.Context, fn func(txRepo DonationRepository) error) error

		CreateDonation(ctx context.Context, donation *entities.Donation) error
		GetDonationByID(ctx context.Context, id string) (*entities.Donation, error)
		// GetDonationByIDForUpdate loads the row under SELECT ... FOR UPDATE.
		// Only meaningful inside Transaction.
		GetDonationByIDForUpdate(ctx context.Context, id string) (*entities.Donation, error)
		SaveDonation(ctx context.Context, donation *entities.Donation) error
		// LockUser takes the user's row lock. Claims lock the recipient
		// before counting active claims, so two claims by one recipient on
		// different donations cannot both pass the quota check.
		LockUser(ctx context.Context, userID string) error
		CountActiveClaims(ctx context.Context, recipientID string) (int64, error)

		SearchDonations(ctx context.Context, req domain.SearchDonationsRequest, now time.Time, page, limit int) ([]*entities.Donation, int64, error)
		GetUserDonations(ctx context.Context, userID, role, status string, page, limit int) ([]*entities.Donation, int64, error)
		GetDonationStats(ctx context.Context, userID, role string) (*domain.DonationStats, error)

		MarkExpiredDonations(ctx context.Context, now time.Time) (int64, error)
		GetDonationsExpiringBetween(ctx context.Context, from, to time.Time) ([]*entities.Donation, error)

		UpsertDailyImpact(ctx context.Context, impact *entities.NutritionImpact) error
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Transaction(ctx context.Context, fn func(txRepo DonationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&donationRepository{db: tx})
	})
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Recipient").
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) GetDonationByIDForUpdate(ctx context.Context, id string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) SaveDonation(ctx context.Context, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Save(donation).Error
}

func (r *donationRepository) LockUser(ctx context.Context, userID string) error {
	var user entities.User
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", userID).Error
}

func (r *donationRepository) CountActiveClaims(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("recipient_id = ? AND status = ?", recipientID, entities.DonationClaimed).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *donationRepository) SearchDonations(ctx context.Context, req domain.SearchDonationsRequest, now time.Time, page, limit int) ([]*entities.Donation, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("status = ? AND expiry_datetime > ?", entities.DonationAvailable, now)

	if req.Query != "" {
		pattern := "%" + req.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if req.FoodCategory != "" {
		query = query.Where("food_category = ?", req.FoodCategory)
	}
	if req.MaxCalories > 0 {
		query = query.Where("estimated_calories IS NOT NULL AND estimated_calories <= ?", req.MaxCalories)
	}
	if req.MinNutritionScore > 0 {
		query = query.Where("nutrition_score >= ?", req.MinNutritionScore)
	}
	for _, tag := range req.DietaryTags {
		query = query.Where("dietary_tags @> ?", `["`+tag+`"]`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donations []*entities.Donation
	if err := query.
		Preload("Donor").
		Order("expiry_datetime ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

func (r *donationRepository) GetUserDonations(ctx context.Context, userID, role, status string, page, limit int) ([]*entities.Donation, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Donation{})
	if role == domain.RoleDonor {
		query = query.Where("donor_id = ?", userID)
	} else {
		query = query.Where("recipient_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donations []*entities.Donation
	if err := query.
		Preload("Donor").
		Preload("Recipient").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}
	return donations, total, nil
}

func (r *donationRepository) GetDonationStats(ctx context.Context, userID, role string) (*domain.DonationStats, error) {
	ownerColumn := "recipient_id"
	if role == domain.RoleDonor {
		ownerColumn = "donor_id"
	}

	stats := &domain.DonationStats{Role: role}
	base := r.db.WithContext(ctx).Model(&entities.Donation{}).Where(ownerColumn+" = ?", userID)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalDonations).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", entities.DonationCompleted).
		Count(&stats.CompletedDonations).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status IN ?", []string{entities.DonationAvailable, entities.DonationClaimed}).
		Count(&stats.ActiveDonations).Error; err != nil {
		return nil, err
	}

	var aggregates struct {
		TotalCalories     int64
		AvgNutritionScore float64
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", entities.DonationCompleted).
		Select("COALESCE(SUM(estimated_calories), 0) AS total_calories, COALESCE(AVG(nutrition_score), 0) AS avg_nutrition_score").
		Scan(&aggregates).Error; err != nil {
		return nil, err
	}
	stats.TotalCalories = aggregates.TotalCalories
	stats.AvgNutritionScore = aggregates.AvgNutritionScore

	if stats.TotalDonations > 0 {
		stats.CompletionRate = float64(stats.CompletedDonations) / float64(stats.TotalDonations) * 100
	}
	return stats, nil
}

func (r *donationRepository) MarkExpiredDonations(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("status = ? AND expiry_datetime <= ?", entities.DonationAvailable, now).
		Update("status", entities.DonationExpired)
	return result.RowsAffected, result.Error
}

func (r *donationRepository) GetDonationsExpiringBetween(ctx context.Context, from, to time.Time) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Recipient").
		Where("status IN ? AND expiry_datetime > ? AND expiry_datetime <= ?",
			[]string{entities.DonationAvailable, entities.DonationClaimed}, from, to).
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// UpsertDailyImpact accumulates one day's counters for a user. Conflicts on
// (user_id, date) add to the existing row and recompute the running average,
// weighted by the number of exchanges already accumulated. Every SET
// expression reads the pre-update row, so the old counts in the average
// denominator match the counts being added.
func (r *donationRepository) UpsertDailyImpact(ctx context.Context, impact *entities.NutritionImpact) error {
	incoming := impact.DonationsMade + impact.DonationsReceived
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"donations_made":     gorm.Expr("nutrition_impacts.donations_made + ?", impact.DonationsMade),
				"donations_received": gorm.Expr("nutrition_impacts.donations_received + ?", impact.DonationsReceived),
				"total_calories":     gorm.Expr("nutrition_impacts.total_calories + ?", impact.TotalCalories),
				"avg_nutrition_score": gorm.Expr(
					"(nutrition_impacts.avg_nutrition_score * (nutrition_impacts.donations_made + nutrition_impacts.donations_received) + ?) / (nutrition_impacts.donations_made + nutrition_impacts.donations_received + ?)",
					impact.AvgNutritionScore*float64(incoming), incoming),
				"updated_at": time.Now(),
			}),
		}).
		Create(impact).Error
}
