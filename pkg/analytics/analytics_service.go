package analytics

import (
	"context"
	"fmt"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/internal/utils/cache"
	"Foodloop-Backend/pkg/donation"
	"Foodloop-Backend/pkg/user"
)

const defaultImpactDays = 30

type (
	AnalyticsService interface {
		GetPlatformOverview(ctx context.Context) (*domain.PlatformOverview, error)
		GetUserAnalytics(ctx context.Context, userID string, days int) (*domain.UserAnalytics, error)
		GetDonationTrends(ctx context.Context, days int) (*domain.DonationTrends, error)
	}

	analyticsService struct {
		analyticsRepository AnalyticsRepository
		donationRepository  donation.DonationRepository
		userRepository      user.UserRepository
		cacheManager        cache.CacheManager
	}
)

func NewAnalyticsService(
	analyticsRepository AnalyticsRepository,
	donationRepository donation.DonationRepository,
	userRepository user.UserRepository,
	cacheManager cache.CacheManager,
) AnalyticsService {
	return &analyticsService{
		analyticsRepository: analyticsRepository,
		donationRepository:  donationRepository,
		userRepository:      userRepository,
		cacheManager:        cacheManager,
	}
}

func (s *analyticsService) GetPlatformOverview(ctx context.Context) (*domain.PlatformOverview, error) {
	key := cache.AnalyticsKey("overview")
	var cached domain.PlatformOverview
	if s.cacheManager.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	totalUsers, donors, recipients, err := s.analyticsRepository.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	totalDonations, active, completed, err := s.analyticsRepository.CountDonationsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.analyticsRepository.GetCategoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	overview := &domain.PlatformOverview{
		TotalUsers:         totalUsers,
		TotalDonors:        donors,
		TotalRecipients:    recipients,
		TotalDonations:     totalDonations,
		ActiveDonations:    active,
		CompletedDonations: completed,
		CategoryBreakdown:  breakdown,
	}
	if totalDonations > 0 {
		overview.CompletionRate = float64(completed) / float64(totalDonations) * 100
	}

	s.cacheManager.SetJSON(ctx, key, overview, cache.TimeoutAnalytics)
	return overview, nil
}

func (s *analyticsService) GetUserAnalytics(ctx context.Context, userID string, days int) (*domain.UserAnalytics, error) {
	if days < 1 || days > 365 {
		days = defaultImpactDays
	}

	actor, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	stats, err := s.donationRepository.GetDonationStats(ctx, userID, actor.Role)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -days)
	impacts, err := s.analyticsRepository.GetDailyImpact(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	daily := make([]domain.DailyImpact, 0, len(impacts))
	for _, impact := range impacts {
		daily = append(daily, domain.DailyImpact{
			Date:              impact.Date,
			DonationsMade:     impact.DonationsMade,
			DonationsReceived: impact.DonationsReceived,
			TotalCalories:     impact.TotalCalories,
		})
	}

	return &domain.UserAnalytics{
		Stats:       *stats,
		DailyImpact: daily,
	}, nil
}

func (s *analyticsService) GetDonationTrends(ctx context.Context, days int) (*domain.DonationTrends, error) {
	if days < 1 || days > 365 {
		return nil, domain.ErrInvalidTrendRange
	}

	key := cache.AnalyticsKey("trends", fmt.Sprintf("%dd", days))
	var cached domain.DonationTrends
	if s.cacheManager.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	since := time.Now().AddDate(0, 0, -days)
	points, err := s.analyticsRepository.GetDonationTrends(ctx, since)
	if err != nil {
		return nil, err
	}

	trends := &domain.DonationTrends{Days: days, Points: points}
	s.cacheManager.SetJSON(ctx, key, trends, cache.TimeoutAnalytics)
	return trends, nil
}
