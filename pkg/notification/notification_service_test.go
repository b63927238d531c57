package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"Foodloop-Backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// Mock implementations

type mockNotificationRepository struct {
	mock.Mock
}

func (m *mockNotificationRepository) CreateNotification(ctx context.Context, notification *entities.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepository) GetUserNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*entities.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, page, limit)
	if v := args.Get(0); v != nil {
		return v.([]*entities.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationRepository) GetNotificationByID(ctx context.Context, id string) (*entities.Notification, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*entities.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	args := m.Called(ctx, id, readAt)
	return args.Error(0)
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID string, readAt time.Time) (int64, error) {
	args := m.Called(ctx, userID, readAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepository) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
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

type mockCacheManager struct {
	mock.Mock
}

func (m *mockCacheManager) GetNotificationCount(ctx context.Context, userID string) (int64, bool) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *mockCacheManager) SetNotificationCount(ctx context.Context, userID string, count int64) {
	m.Called(ctx, userID, count)
}

func (m *mockCacheManager) InvalidateNotificationCount(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *mockCacheManager) GetJSON(ctx context.Context, key string, dest any) bool {
	args := m.Called(ctx, key, dest)
	return args.Bool(0)
}

func (m *mockCacheManager) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCacheManager) Invalidate(ctx context.Context, keys ...string) {
	m.Called(ctx, keys)
}

func jsonTags(t *testing.T, tags []string) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(tags)
	require.NoError(t, err)
	return datatypes.JSON(raw)
}

func TestNotificationService_NotifyNewDonation(t *testing.T) {
	ctx := context.Background()

	t.Run("only compatible recipients are notified", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		userRepo := &mockUserRepository{}
		cacheMgr := &mockCacheManager{}
		svc := NewNotificationService(repo, userRepo, cacheMgr)

		glutenFree := &entities.User{ID: uuid.New(), Role: "recipient", Verified: true,
			DietaryRestrictions: jsonTags(t, []string{"gluten"})}
		noRestrictions := &entities.User{ID: uuid.New(), Role: "recipient", Verified: true}

		donation := &entities.Donation{
			ID:           uuid.New(),
			DonorID:      uuid.New(),
			Title:        "Wheat bread",
			FoodCategory: "grains",
			DietaryTags:  jsonTags(t, []string{"gluten"}),
		}

		userRepo.On("FindVerifiedRecipients", mock.Anything, mock.Anything).
			Return([]*entities.User{glutenFree, noRestrictions}, nil).Once()
		repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
			return n.UserID == noRestrictions.ID && n.NotificationType == entities.NotificationNewDonation
		})).Return(nil).Once()
		cacheMgr.On("InvalidateNotificationCount", mock.Anything, noRestrictions.ID.String()).Once()

		notified := svc.NotifyNewDonation(ctx, donation)
		require.Equal(t, 1, notified)

		mock.AssertExpectationsForObjects(t, repo, userRepo, cacheMgr)
	})

	t.Run("the donor never gets their own announcement", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		userRepo := &mockUserRepository{}
		cacheMgr := &mockCacheManager{}
		svc := NewNotificationService(repo, userRepo, cacheMgr)

		donorID := uuid.New()
		donorAsRecipient := &entities.User{ID: donorID, Role: "recipient", Verified: true}

		donation := &entities.Donation{ID: uuid.New(), DonorID: donorID, Title: "Soup"}

		userRepo.On("FindVerifiedRecipients", mock.Anything, mock.Anything).
			Return([]*entities.User{donorAsRecipient}, nil).Once()

		notified := svc.NotifyNewDonation(ctx, donation)
		require.Zero(t, notified)

		mock.AssertExpectationsForObjects(t, repo, userRepo)
	})
}

func TestNotificationService_GetUnreadCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("cache hit skips the database", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		userRepo := &mockUserRepository{}
		cacheMgr := &mockCacheManager{}
		svc := NewNotificationService(repo, userRepo, cacheMgr)

		cacheMgr.On("GetNotificationCount", mock.Anything, userID).Return(int64(7), true).Once()

		count, err := svc.GetUnreadCount(ctx, userID)
		require.NoError(t, err)
		require.EqualValues(t, 7, count)

		mock.AssertExpectationsForObjects(t, repo, cacheMgr)
	})

	t.Run("cache miss counts and backfills", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		userRepo := &mockUserRepository{}
		cacheMgr := &mockCacheManager{}
		svc := NewNotificationService(repo, userRepo, cacheMgr)

		cacheMgr.On("GetNotificationCount", mock.Anything, userID).Return(int64(0), false).Once()
		repo.On("CountUnread", mock.Anything, userID).Return(int64(3), nil).Once()
		cacheMgr.On("SetNotificationCount", mock.Anything, userID, int64(3)).Once()

		count, err := svc.GetUnreadCount(ctx, userID)
		require.NoError(t, err)
		require.EqualValues(t, 3, count)

		mock.AssertExpectationsForObjects(t, repo, cacheMgr)
	})
}

func TestNotificationService_MarkNotificationRead(t *testing.T) {
	ctx := context.Background()

	t.Run("owner marks unread notification", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		userRepo := &mockUserRepository{}
		cacheMgr := &mockCacheManager{}
		svc := NewNotificationService(repo, userRepo, cacheMgr)

		ownerID := uuid.New()
		notification := &entities.Notification{ID: uuid.New(), UserID: ownerID}

		repo.On("GetNotificationByID", mock.Anything, notification.ID.String()).Return(notification, nil).Once()
		repo.On("MarkRead", mock.Anything, notification.ID.String(), mock.Anything).Return(nil).Once()
		cacheMgr.On("InvalidateNotificationCount", mock.Anything, ownerID.String()).Once()

		err := svc.MarkNotificationRead(ctx, notification.ID.String(), ownerID.String())
		require.NoError(t, err)

		mock.AssertExpectationsForObjects(t, repo, cacheMgr)
	})

	t.Run("other users cannot see the notification", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		userRepo := &mockUserRepository{}
		cacheMgr := &mockCacheManager{}
		svc := NewNotificationService(repo, userRepo, cacheMgr)

		notification := &entities.Notification{ID: uuid.New(), UserID: uuid.New()}

		repo.On("GetNotificationByID", mock.Anything, notification.ID.String()).Return(notification, nil).Once()

		err := svc.MarkNotificationRead(ctx, notification.ID.String(), uuid.New().String())
		require.Error(t, err)
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		repo := &mockNotificationRepository{}
		userRepo := &mockUserRepository{}
		cacheMgr := &mockCacheManager{}
		svc := NewNotificationService(repo, userRepo, cacheMgr)

		ownerID := uuid.New()
		notification := &entities.Notification{ID: uuid.New(), UserID: ownerID, IsRead: true}

		repo.On("GetNotificationByID", mock.Anything, notification.ID.String()).Return(notification, nil).Once()

		err := svc.MarkNotificationRead(ctx, notification.ID.String(), ownerID.String())
		require.NoError(t, err)

		mock.AssertExpectationsForObjects(t, repo)
	})
}
