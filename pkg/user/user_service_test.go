package user

import (
	"context"
	"testing"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/entities"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Mock implementations

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

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateTokenUser(userId string, role string) string {
	args := m.Called(userId, role)
	return args.String(0)
}

func (m *mockJWTService) ValidateTokenUser(token string) (*jwtlib.Token, error) {
	args := m.Called(token)
	if v := args.Get(0); v != nil {
		return v.(*jwtlib.Token), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockJWTService) GetUserIDByToken(token string) (string, string, error) {
	args := m.Called(token)
	return args.String(0), args.String(1), args.Error(2)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		req := domain.RegisterRequest{
			Email:               "dewi@example.com",
			Password:            "correcthorse",
			Name:                "Dewi",
			Role:                domain.RoleDonor,
			DietaryRestrictions: []string{"halal"},
		}

		userRepo.On("GetUserByEmail", mock.Anything, req.Email).Return(nil, gorm.ErrRecordNotFound).Once()
		userRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Email == req.Email && u.Role == domain.RoleDonor && !u.Verified && u.Password != req.Password
		})).Return(nil).Once()
		userRepo.On("CreateEmailVerification", mock.Anything, mock.Anything).Return(nil).Once()

		res, err := svc.Register(ctx, req)
		require.NoError(t, err)
		require.Equal(t, req.Email, res.Email)
		require.False(t, res.Verified)

		mock.AssertExpectationsForObjects(t, userRepo)
	})

	t.Run("duplicate email", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		req := domain.RegisterRequest{Email: "taken@example.com", Password: "password1", Name: "X", Role: domain.RoleDonor}

		userRepo.On("GetUserByEmail", mock.Anything, req.Email).Return(&entities.User{}, nil).Once()

		_, err := svc.Register(ctx, req)
		require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("invalid role", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		_, err := svc.Register(ctx, domain.RegisterRequest{Role: "admin"})
		require.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("invalid dietary restriction", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		_, err := svc.Register(ctx, domain.RegisterRequest{
			Role:                domain.RoleRecipient,
			DietaryRestrictions: []string{"plutonium"},
		})
		require.ErrorIs(t, err, domain.ErrInvalidDietaryRestriction)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a token", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		hashed, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.MinCost)
		require.NoError(t, err)
		account := &entities.User{ID: uuid.New(), Email: "dewi@example.com", Password: string(hashed), Role: domain.RoleDonor}

		userRepo.On("GetUserByEmail", mock.Anything, account.Email).Return(account, nil).Once()
		jwtSvc.On("GenerateTokenUser", account.ID.String(), domain.RoleDonor).Return("signed-token").Once()

		res, err := svc.Login(ctx, domain.LoginRequest{Email: account.Email, Password: "correcthorse"})
		require.NoError(t, err)
		require.Equal(t, "signed-token", res.Token)
		require.Equal(t, domain.RoleDonor, res.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		hashed, _ := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.MinCost)
		account := &entities.User{ID: uuid.New(), Email: "dewi@example.com", Password: string(hashed)}

		userRepo.On("GetUserByEmail", mock.Anything, account.Email).Return(account, nil).Once()

		_, err := svc.Login(ctx, domain.LoginRequest{Email: account.Email, Password: "tr0ub4dor"})
		require.ErrorIs(t, err, domain.ErrCredentialsInvalid)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		userRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		require.ErrorIs(t, err, domain.ErrCredentialsInvalid)
	})
}

func TestUserService_VerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token verifies the account", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		verification := &entities.EmailVerification{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Token:     uuid.New(),
			ExpiresAt: time.Now().Add(time.Hour),
		}

		userRepo.On("GetEmailVerificationByToken", mock.Anything, verification.Token.String()).Return(verification, nil).Once()
		userRepo.On("MarkVerificationUsed", mock.Anything, verification.ID.String(), mock.Anything).Return(nil).Once()
		userRepo.On("MarkUserVerified", mock.Anything, verification.UserID.String()).Return(nil).Once()

		err := svc.VerifyEmail(ctx, verification.Token.String())
		require.NoError(t, err)

		mock.AssertExpectationsForObjects(t, userRepo)
	})

	t.Run("expired token", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		verification := &entities.EmailVerification{
			ID:        uuid.New(),
			Token:     uuid.New(),
			ExpiresAt: time.Now().Add(-time.Minute),
		}

		userRepo.On("GetEmailVerificationByToken", mock.Anything, verification.Token.String()).Return(verification, nil).Once()

		err := svc.VerifyEmail(ctx, verification.Token.String())
		require.ErrorIs(t, err, domain.ErrVerificationExpired)
	})

	t.Run("unknown token", func(t *testing.T) {
		userRepo := &mockUserRepository{}
		jwtSvc := &mockJWTService{}
		svc := NewUserService(userRepo, jwtSvc, nil)

		userRepo.On("GetEmailVerificationByToken", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound).Once()

		err := svc.VerifyEmail(ctx, uuid.New().String())
		require.ErrorIs(t, err, domain.ErrVerificationNotFound)
	})
}
