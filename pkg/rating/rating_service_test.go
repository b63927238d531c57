package rating

import (
	"context"
	"testing"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/entities"
	"Foodloop-Backend/pkg/donation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock implementations

type mockRatingRepository struct {
	mock.Mock
}

func (m *mockRatingRepository) CreateRating(ctx context.Context, rating *entities.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *mockRatingRepository) GetRatingByDonationAndRater(ctx context.Context, donationID, raterID string) (*entities.Rating, error) {
	args := m.Called(ctx, donationID, raterID)
	if v := args.Get(0); v != nil {
		return v.(*entities.Rating), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRatingRepository) GetUserRatings(ctx context.Context, userID string, page, limit int) ([]*entities.Rating, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Rating), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *mockRatingRepository) GetDonationRatings(ctx context.Context, donationID string) ([]*entities.Rating, error) {
	args := m.Called(ctx, donationID)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Rating), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRatingRepository) GetUserRatingStats(ctx context.Context, userID string) (float64, int, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type mockDonationRepository struct {
	mock.Mock
}

func (m *mockDonationRepository) Transaction(ctx context.Context, fn func(txRepo donation.DonationRepository) error) error {
	return fn(m)
}

func (m *mockDonationRepository) CreateDonation(ctx context.Context, d *entities.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDonationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.Donation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDonationRepository) GetDonationByIDForUpdate(ctx context.Context, id string) (*entities.Donation, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.Donation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDonationRepository) SaveDonation(ctx context.Context, d *entities.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDonationRepository) LockUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockDonationRepository) CountActiveClaims(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDonationRepository) SearchDonations(ctx context.Context, req domain.SearchDonationsRequest, now time.Time, page, limit int) ([]*entities.Donation, int64, error) {
	args := m.Called(ctx, req, now, page, limit)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Donation), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *mockDonationRepository) GetUserDonations(ctx context.Context, userID, role, status string, page, limit int) ([]*entities.Donation, int64, error) {
	args := m.Called(ctx, userID, role, status, page, limit)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Donation), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *mockDonationRepository) GetDonationStats(ctx context.Context, userID, role string) (*domain.DonationStats, error) {
	args := m.Called(ctx, userID, role)
	if v := args.Get(0); v != nil {
		return v.(*domain.DonationStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDonationRepository) MarkExpiredDonations(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDonationRepository) GetDonationsExpiringBetween(ctx context.Context, from, to time.Time) ([]*entities.Donation, error) {
	args := m.Called(ctx, from, to)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Donation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDonationRepository) UpsertDailyImpact(ctx context.Context, impact *entities.NutritionImpact) error {
	args := m.Called(ctx, impact)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) MarkUserVerified(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockUserRepository) UpdateRatingAggregate(ctx context.Context, userID string, average float64, total int) error {
	args := m.Called(ctx, userID, average, total)
	return args.Error(0)
}

func (m *mockUserRepository) FindVerifiedRecipients(ctx context.Context, limit int) ([]*entities.User, error) {
	args := m.Called(ctx, limit)
	if v := args.Get(0); v != nil {
		return v.([]*entities.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) CreateEmailVerification(ctx context.Context, verification *entities.EmailVerification) error {
	args := m.Called(ctx, verification)
	return args.Error(0)
}

func (m *mockUserRepository) GetEmailVerificationByToken(ctx context.Context, token string) (*entities.EmailVerification, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*entities.EmailVerification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) MarkVerificationUsed(ctx context.Context, id string, verifiedAt time.Time) error {
	args := m.Called(ctx, id, verifiedAt)
	return args.Error(0)
}

type mockNotificationService struct {
	mock.Mock
}

func (m *mockNotificationService) Notify(ctx context.Context, userID uuid.UUID, notificationType, title, message string, relatedDonation *uuid.UUID) {
	m.Called(ctx, userID, notificationType, title, message, relatedDonation)
}

func (m *mockNotificationService) NotifyNewDonation(ctx context.Context, d *entities.Donation) int {
	args := m.Called(ctx, d)
	return args.Int(0)
}

func (m *mockNotificationService) NotifyDonationClaimed(ctx context.Context, d *entities.Donation) {
	m.Called(ctx, d)
}

func (m *mockNotificationService) NotifyDonationCompleted(ctx context.Context, d *entities.Donation) {
	m.Called(ctx, d)
}

func (m *mockNotificationService) NotifyDonationCancelled(ctx context.Context, d *entities.Donation) {
	m.Called(ctx, d)
}

func (m *mockNotificationService) NotifyRatingReceived(ctx context.Context, ratedUser uuid.UUID, raterName string, ratingValue int, donationID uuid.UUID) {
	m.Called(ctx, ratedUser, raterName, ratingValue, donationID)
}

func (m *mockNotificationService) GetUserNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, page, limit)
	if v := args.Get(0); v != nil {
		return v.([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *mockNotificationService) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) CleanupOldNotifications(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// Test fixtures

func completedDonation(donorID, recipientID uuid.UUID, completedAt time.Time) *entities.Donation {
	return &entities.Donation{
		ID:          uuid.New(),
		DonorID:     donorID,
		RecipientID: &recipientID,
		Title:       "Sourdough loaves",
		Status:      entities.DonationCompleted,
		CompletedAt: &completedAt,
	}
}

func newTestService() (RatingService, *mockRatingRepository, *mockDonationRepository, *mockUserRepository, *mockNotificationService) {
	ratingRepo := &mockRatingRepository{}
	donationRepo := &mockDonationRepository{}
	userRepo := &mockUserRepository{}
	notificationSvc := &mockNotificationService{}
	svc := NewRatingService(ratingRepo, donationRepo, userRepo, notificationSvc)
	return svc, ratingRepo, donationRepo, userRepo, notificationSvc
}

func TestRatingService_CreateRating(t *testing.T) {
	ctx := context.Background()

	t.Run("donor rates the recipient", func(t *testing.T) {
		svc, ratingRepo, donationRepo, userRepo, notificationSvc := newTestService()

		donor := &entities.User{ID: uuid.New(), Name: "Dewi", Role: domain.RoleDonor}
		recipientID := uuid.New()
		target := completedDonation(donor.ID, recipientID, time.Now().Add(-24*time.Hour))
		req := domain.RatingRequest{DonationID: target.ID.String(), Rating: 5, Comment: "smooth pickup"}

		userRepo.On("GetUserByID", mock.Anything, donor.ID.String()).Return(donor, nil).Once()
		donationRepo.On("GetDonationByID", mock.Anything, target.ID.String()).Return(target, nil).Once()
		ratingRepo.On("GetRatingByDonationAndRater", mock.Anything, target.ID.String(), donor.ID.String()).
			Return(nil, gorm.ErrRecordNotFound).Once()
		ratingRepo.On("CreateRating", mock.Anything, mock.MatchedBy(func(r *entities.Rating) bool {
			return r.RatingUser == donor.ID && r.RatedUser == recipientID && r.Rating == 5
		})).Return(nil).Once()
		ratingRepo.On("GetUserRatingStats", mock.Anything, recipientID.String()).Return(4.5, 4, nil).Once()
		userRepo.On("UpdateRatingAggregate", mock.Anything, recipientID.String(), 4.5, 4).Return(nil).Once()
		notificationSvc.On("NotifyRatingReceived", mock.Anything, recipientID, donor.Name, 5, target.ID).Once()

		result, err := svc.CreateRating(ctx, req, donor.ID.String())
		require.NoError(t, err)
		require.Equal(t, 5, result.Rating)
		require.Equal(t, recipientID.String(), result.RatedUser)
		require.Equal(t, donor.Name, result.RaterName)

		mock.AssertExpectationsForObjects(t, ratingRepo, donationRepo, userRepo, notificationSvc)
	})

	t.Run("recipient rates the donor", func(t *testing.T) {
		svc, ratingRepo, donationRepo, userRepo, notificationSvc := newTestService()

		recipient := &entities.User{ID: uuid.New(), Name: "Rina", Role: domain.RoleRecipient}
		donorID := uuid.New()
		target := completedDonation(donorID, recipient.ID, time.Now().Add(-time.Hour))
		req := domain.RatingRequest{DonationID: target.ID.String(), Rating: 4}

		userRepo.On("GetUserByID", mock.Anything, recipient.ID.String()).Return(recipient, nil).Once()
		donationRepo.On("GetDonationByID", mock.Anything, target.ID.String()).Return(target, nil).Once()
		ratingRepo.On("GetRatingByDonationAndRater", mock.Anything, target.ID.String(), recipient.ID.String()).
			Return(nil, gorm.ErrRecordNotFound).Once()
		ratingRepo.On("CreateRating", mock.Anything, mock.MatchedBy(func(r *entities.Rating) bool {
			return r.RatingUser == recipient.ID && r.RatedUser == donorID
		})).Return(nil).Once()
		ratingRepo.On("GetUserRatingStats", mock.Anything, donorID.String()).Return(4.0, 1, nil).Once()
		userRepo.On("UpdateRatingAggregate", mock.Anything, donorID.String(), 4.0, 1).Return(nil).Once()
		notificationSvc.On("NotifyRatingReceived", mock.Anything, donorID, recipient.Name, 4, target.ID).Once()

		result, err := svc.CreateRating(ctx, req, recipient.ID.String())
		require.NoError(t, err)
		require.Equal(t, donorID.String(), result.RatedUser)
	})

	t.Run("bystanders cannot rate", func(t *testing.T) {
		svc, _, donationRepo, userRepo, _ := newTestService()

		stranger := &entities.User{ID: uuid.New(), Name: "Budi", Role: domain.RoleRecipient}
		target := completedDonation(uuid.New(), uuid.New(), time.Now().Add(-time.Hour))

		userRepo.On("GetUserByID", mock.Anything, stranger.ID.String()).Return(stranger, nil).Once()
		donationRepo.On("GetDonationByID", mock.Anything, target.ID.String()).Return(target, nil).Once()

		_, err := svc.CreateRating(ctx, domain.RatingRequest{DonationID: target.ID.String(), Rating: 3}, stranger.ID.String())
		require.ErrorIs(t, err, domain.ErrRatingNotAllowed)
	})

	t.Run("only completed donations can be rated", func(t *testing.T) {
		svc, _, donationRepo, userRepo, _ := newTestService()

		donor := &entities.User{ID: uuid.New(), Role: domain.RoleDonor}
		target := completedDonation(donor.ID, uuid.New(), time.Now())
		target.Status = entities.DonationClaimed
		target.CompletedAt = nil

		userRepo.On("GetUserByID", mock.Anything, donor.ID.String()).Return(donor, nil).Once()
		donationRepo.On("GetDonationByID", mock.Anything, target.ID.String()).Return(target, nil).Once()

		_, err := svc.CreateRating(ctx, domain.RatingRequest{DonationID: target.ID.String(), Rating: 3}, donor.ID.String())
		require.ErrorIs(t, err, domain.ErrRatingNotCompleted)
	})

	t.Run("window closes after 30 days", func(t *testing.T) {
		svc, _, donationRepo, userRepo, _ := newTestService()

		donor := &entities.User{ID: uuid.New(), Role: domain.RoleDonor}
		target := completedDonation(donor.ID, uuid.New(), time.Now().Add(-31*24*time.Hour))

		userRepo.On("GetUserByID", mock.Anything, donor.ID.String()).Return(donor, nil).Once()
		donationRepo.On("GetDonationByID", mock.Anything, target.ID.String()).Return(target, nil).Once()

		_, err := svc.CreateRating(ctx, domain.RatingRequest{DonationID: target.ID.String(), Rating: 3}, donor.ID.String())
		require.ErrorIs(t, err, domain.ErrRatingWindowClosed)
	})

	t.Run("double rating is rejected", func(t *testing.T) {
		svc, ratingRepo, donationRepo, userRepo, _ := newTestService()

		donor := &entities.User{ID: uuid.New(), Role: domain.RoleDonor}
		recipientID := uuid.New()
		target := completedDonation(donor.ID, recipientID, time.Now().Add(-time.Hour))

		userRepo.On("GetUserByID", mock.Anything, donor.ID.String()).Return(donor, nil).Once()
		donationRepo.On("GetDonationByID", mock.Anything, target.ID.String()).Return(target, nil).Once()
		ratingRepo.On("GetRatingByDonationAndRater", mock.Anything, target.ID.String(), donor.ID.String()).
			Return(&entities.Rating{}, nil).Once()

		_, err := svc.CreateRating(ctx, domain.RatingRequest{DonationID: target.ID.String(), Rating: 3}, donor.ID.String())
		require.ErrorIs(t, err, domain.ErrAlreadyRated)
	})

	t.Run("out of range rating value", func(t *testing.T) {
		svc, _, _, _, _ := newTestService()

		_, err := svc.CreateRating(ctx, domain.RatingRequest{DonationID: uuid.New().String(), Rating: 6}, uuid.New().String())
		require.ErrorIs(t, err, domain.ErrInvalidRatingValue)
	})
}

func TestRatingService_GetUserRatings(t *testing.T) {
	ctx := context.Background()

	svc, ratingRepo, _, _, _ := newTestService()
	userID := uuid.New()
	rater := &entities.User{ID: uuid.New(), Name: "Sari"}

	ratings := []*entities.Rating{
		{ID: uuid.New(), DonationID: uuid.New(), RatingUser: rater.ID, RatedUser: userID, Rating: 5, Rater: rater},
		{ID: uuid.New(), DonationID: uuid.New(), RatingUser: uuid.New(), RatedUser: userID, Rating: 3},
	}
	ratingRepo.On("GetUserRatings", mock.Anything, userID.String(), 1, 20).Return(ratings, int64(2), nil).Once()

	result, total, err := svc.GetUserRatings(ctx, userID.String(), 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, result, 2)
	require.Equal(t, "Sari", result[0].RaterName)
	require.Empty(t, result[1].RaterName)
}
