package donation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/entities"
	"Foodloop-Backend/internal/utils"
	"Foodloop-Backend/internal/utils/cache"
	"Foodloop-Backend/internal/utils/mailing"
	"Foodloop-Backend/internal/utils/storage"
	"Foodloop-Backend/pkg/notification"
	"Foodloop-Backend/pkg/nutrition"
	"Foodloop-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxExpiryHorizon = 365 * 24 * time.Hour
	maxPickupWindow  = 48 * time.Hour
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type (
	DonationService interface {
		CreateDonation(ctx context.Context, req domain.DonationRequest, donorID string) (*domain.Donation, error)
		UpdateDonation(ctx context.Context, donationID string, req domain.UpdateDonationRequest, userID string) (*domain.Donation, error)
		ClaimDonation(ctx context.Context, donationID string, recipientID string) (*domain.Donation, error)
		CompleteDonation(ctx context.Context, donationID string, actorID string) (*domain.Donation, error)
		CancelDonation(ctx context.Context, donationID string, actorID string) (*domain.Donation, error)
		GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)
		SearchDonations(ctx context.Context, req domain.SearchDonationsRequest, page, limit int) ([]domain.Donation, int64, error)
		GetUserDonations(ctx context.Context, userID, status string, page, limit int) ([]domain.Donation, int64, error)
		GetDonationStats(ctx context.Context, userID string) (*domain.DonationStats, error)
	}

	donationService struct {
		donationRepository  DonationRepository
		userRepository      user.UserRepository
		notificationService notification.NotificationService
		cacheManager        cache.CacheManager
		awsS3               storage.AwsS3
	}
)

func NewDonationService(
	donationRepository DonationRepository,
	userRepository user.UserRepository,
	notificationService notification.NotificationService,
	cacheManager cache.CacheManager,
	awsS3 storage.AwsS3,
) DonationService {
	return &donationService{
		donationRepository:  donationRepository,
		userRepository:      userRepository,
		notificationService: notificationService,
		cacheManager:        cacheManager,
		awsS3:               awsS3,
	}
}

func (s *donationService) CreateDonation(ctx context.Context, req domain.DonationRequest, donorID string) (*domain.Donation, error) {
	donor, err := s.userRepository.GetUserByID(ctx, donorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if donor.Role != domain.RoleDonor {
		return nil, domain.ErrOnlyDonorsCanDonate
	}
	if !donor.Verified {
		return nil, domain.ErrUserNotVerified
	}

	now := time.Now()
	if err := validateSchedule(req.ExpiryDatetime, req.PickupStart, req.PickupEnd, now); err != nil {
		return nil, err
	}
	if !nutrition.ValidTags(req.DietaryTags) {
		return nil, domain.ErrInvalidDietaryTags
	}

	tags, err := json.Marshal(nutrition.ExpandTagList(req.DietaryTags))
	if err != nil {
		return nil, err
	}

	donation := &entities.Donation{
		DonorID:           donor.ID,
		Title:             req.Title,
		Description:       req.Description,
		FoodCategory:      req.FoodCategory,
		Quantity:          req.Quantity,
		Status:            entities.DonationAvailable,
		ExpiryDatetime:    req.ExpiryDatetime,
		PickupStart:       req.PickupStart,
		PickupEnd:         req.PickupEnd,
		PickupLocation:    req.PickupLocation,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		DietaryTags:       datatypes.JSON(tags),
		EstimatedCalories: req.EstimatedCalories,
		NutritionScore:    nutrition.Score(req.FoodCategory, req.ExpiryDatetime, req.DietaryTags, now),
		IngredientsList:   req.IngredientsList,
		AllergenInfo:      req.AllergenInfo,
	}

	if req.Image != nil {
		imageKey, err := s.awsS3.UploadFile(uuid.New().String(), req.Image, "donations", storage.AllowImage...)
		if err != nil {
			return nil, err
		}
		donation.ImageURL = s.awsS3.GetPublicLinkKey(imageKey)
	}

	if err := s.donationRepository.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	donation.Donor = donor
	s.notificationService.NotifyNewDonation(ctx, donation)

	response := toDonationResponse(donation)
	return &response, nil
}

func (s *donationService) UpdateDonation(ctx context.Context, donationID string, req domain.UpdateDonationRequest, userID string) (*domain.Donation, error) {
	var updated *entities.Donation

	err := s.donationRepository.Transaction(ctx, func(txRepo DonationRepository) error {
		donation, err := txRepo.GetDonationByIDForUpdate(ctx, donationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrDonationNotFound
			}
			return err
		}
		if donation.DonorID.String() != userID {
			return domain.ErrUnauthorizedDonationAccess
		}
		if donation.Status != entities.DonationAvailable {
			return domain.ErrDonationNotEditable
		}

		if req.Title != "" {
			donation.Title = req.Title
		}
		if req.Description != "" {
			donation.Description = req.Description
		}
		if req.Quantity > 0 {
			donation.Quantity = req.Quantity
		}
		if req.PickupLocation != "" {
			donation.PickupLocation = req.PickupLocation
		}
		if req.EstimatedCalories != nil {
			donation.EstimatedCalories = req.EstimatedCalories
		}
		if req.IngredientsList != "" {
			donation.IngredientsList = req.IngredientsList
		}
		if req.AllergenInfo != "" {
			donation.AllergenInfo = req.AllergenInfo
		}
		if req.DietaryTags != nil {
			if !nutrition.ValidTags(req.DietaryTags) {
				return domain.ErrInvalidDietaryTags
			}
			tags, err := json.Marshal(nutrition.ExpandTagList(req.DietaryTags))
			if err != nil {
				return err
			}
			donation.DietaryTags = datatypes.JSON(tags)
			donation.NutritionScore = nutrition.Score(donation.FoodCategory, donation.ExpiryDatetime, req.DietaryTags, time.Now())
		}

		if err := txRepo.SaveDonation(ctx, donation); err != nil {
			return err
		}
		updated = donation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cacheManager.Invalidate(ctx, cache.DonationKey(donationID))
	return s.loadResponse(ctx, donationID, updated)
}

// ClaimDonation arbitrates concurrent claims with a row lock: the donation is
// re-read under SELECT ... FOR UPDATE and every precondition is checked again
// inside the transaction, so exactly one of N simultaneous claimants wins.
func (s *donationService) ClaimDonation(ctx context.Context, donationID string, recipientID string) (*domain.Donation, error) {
	recipient, err := s.userRepository.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if recipient.Role != domain.RoleRecipient {
		return nil, domain.ErrOnlyRecipientsCanClaim
	}
	if !recipient.Verified {
		return nil, domain.ErrUserNotVerified
	}

	err = s.donationRepository.Transaction(ctx, func(txRepo DonationRepository) error {
		donation, err := txRepo.GetDonationByIDForUpdate(ctx, donationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrDonationNotFound
			}
			return err
		}

		now := time.Now()
		if donation.Status == entities.DonationAvailable && donation.IsExpired(now) {
			donation.Status = entities.DonationExpired
			if err := txRepo.SaveDonation(ctx, donation); err != nil {
				return err
			}
			return domain.ErrDonationExpired
		}
		if donation.Status != entities.DonationAvailable {
			return domain.ErrDonationNotAvailable
		}
		if donation.IsPickupOverdue(now) {
			return domain.ErrPickupWindowPassed
		}

		if err := txRepo.LockUser(ctx, recipientID); err != nil {
			return err
		}
		activeClaims, err := txRepo.CountActiveClaims(ctx, recipientID)
		if err != nil {
			return err
		}
		if activeClaims >= int64(utils.MaxActiveClaims()) {
			return domain.ErrTooManyActiveClaims
		}

		donation.RecipientID = &recipient.ID
		donation.Status = entities.DonationClaimed
		donation.ClaimedAt = &now
		return txRepo.SaveDonation(ctx, donation)
	})
	if err != nil {
		return nil, err
	}

	s.cacheManager.Invalidate(ctx, cache.DonationKey(donationID))

	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}

	s.notificationService.NotifyDonationClaimed(ctx, donation)
	if donation.Donor != nil {
		mailing.SendMailAsync(donation.Donor.Email,
			"Your donation was claimed",
			fmt.Sprintf("Hi %s,\n\n%s claimed %q. Pickup window: %s until %s.\n\nFoodLoop",
				donation.Donor.Name, recipient.Name, donation.Title,
				donation.PickupStart.Format(time.RFC1123), donation.PickupEnd.Format(time.RFC1123)))
	}

	response := toDonationResponse(donation)
	if !nutrition.Compatible(decodeTags(recipient.DietaryRestrictions), decodeTags(donation.DietaryTags)) {
		response.DietaryNote = "this donation may not match your dietary preferences"
	}
	return &response, nil
}

func (s *donationService) CompleteDonation(ctx context.Context, donationID string, actorID string) (*domain.Donation, error) {
	var completed *entities.Donation

	err := s.donationRepository.Transaction(ctx, func(txRepo DonationRepository) error {
		donation, err := txRepo.GetDonationByIDForUpdate(ctx, donationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrDonationNotFound
			}
			return err
		}

		isDonor := donation.DonorID.String() == actorID
		isRecipient := donation.RecipientID != nil && donation.RecipientID.String() == actorID
		if !isDonor && !isRecipient {
			return domain.ErrUnauthorizedDonationAccess
		}
		if donation.Status != entities.DonationClaimed {
			return domain.ErrOnlyClaimedCanComplete
		}

		now := time.Now()
		donation.Status = entities.DonationCompleted
		donation.CompletedAt = &now
		if err := txRepo.SaveDonation(ctx, donation); err != nil {
			return err
		}
		completed = donation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cacheManager.Invalidate(ctx, cache.DonationKey(donationID))
	s.recordImpact(ctx, completed)

	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	s.notificationService.NotifyDonationCompleted(ctx, donation)

	response := toDonationResponse(donation)
	return &response, nil
}

func (s *donationService) CancelDonation(ctx context.Context, donationID string, actorID string) (*domain.Donation, error) {
	var cancelled *entities.Donation
	wasClaimed := false

	err := s.donationRepository.Transaction(ctx, func(txRepo DonationRepository) error {
		donation, err := txRepo.GetDonationByIDForUpdate(ctx, donationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrDonationNotFound
			}
			return err
		}
		if donation.DonorID.String() != actorID {
			return domain.ErrUnauthorizedDonationAccess
		}
		if donation.Status != entities.DonationAvailable && donation.Status != entities.DonationClaimed {
			return domain.ErrCannotCancelDonation
		}

		wasClaimed = donation.Status == entities.DonationClaimed
		donation.Status = entities.DonationCancelled
		if err := txRepo.SaveDonation(ctx, donation); err != nil {
			return err
		}
		cancelled = donation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cacheManager.Invalidate(ctx, cache.DonationKey(donationID))
	if wasClaimed {
		s.notificationService.NotifyDonationCancelled(ctx, cancelled)
	}

	return s.loadResponse(ctx, donationID, cancelled)
}

func (s *donationService) GetDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	var cached domain.Donation
	if s.cacheManager.GetJSON(ctx, cache.DonationKey(donationID), &cached) {
		return &cached, nil
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	response := toDonationResponse(donation)
	s.cacheManager.SetJSON(ctx, cache.DonationKey(donationID), response, cache.TimeoutDonationDetail)
	return &response, nil
}

func (s *donationService) SearchDonations(ctx context.Context, req domain.SearchDonationsRequest, page, limit int) ([]domain.Donation, int64, error) {
	page, limit = normalizePage(page, limit)
	if req.DietaryTags != nil && !nutrition.ValidTags(req.DietaryTags) {
		return nil, 0, domain.ErrInvalidDietaryTags
	}

	donations, total, err := s.donationRepository.SearchDonations(ctx, req, time.Now(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDonationResponses(donations), total, nil
}

func (s *donationService) GetUserDonations(ctx context.Context, userID, status string, page, limit int) ([]domain.Donation, int64, error) {
	page, limit = normalizePage(page, limit)

	actor, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, 0, domain.ErrUserNotFound
	}

	donations, total, err := s.donationRepository.GetUserDonations(ctx, userID, actor.Role, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDonationResponses(donations), total, nil
}

func (s *donationService) GetDonationStats(ctx context.Context, userID string) (*domain.DonationStats, error) {
	actor, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.donationRepository.GetDonationStats(ctx, userID, actor.Role)
}

// recordImpact writes both parties' daily aggregates after a completed pickup.
// Failures only log, the completion itself already committed.
func (s *donationService) recordImpact(ctx context.Context, donation *entities.Donation) {
	calories := 0
	if donation.EstimatedCalories != nil {
		calories = *donation.EstimatedCalories
	}
	day := donation.CompletedAt.Truncate(24 * time.Hour)

	donorImpact := &entities.NutritionImpact{
		UserID:            donation.DonorID,
		Date:              day,
		DonationsMade:     1,
		TotalCalories:     calories,
		AvgNutritionScore: float64(donation.NutritionScore),
	}
	if err := s.donationRepository.UpsertDailyImpact(ctx, donorImpact); err != nil {
		log.Printf("failed to record donor impact for donation %s: %v", donation.ID, err)
	}

	if donation.RecipientID == nil {
		return
	}
	recipientImpact := &entities.NutritionImpact{
		UserID:            *donation.RecipientID,
		Date:              day,
		DonationsReceived: 1,
		TotalCalories:     calories,
		AvgNutritionScore: float64(donation.NutritionScore),
	}
	if err := s.donationRepository.UpsertDailyImpact(ctx, recipientImpact); err != nil {
		log.Printf("failed to record recipient impact for donation %s: %v", donation.ID, err)
	}
}

func (s *donationService) loadResponse(ctx context.Context, donationID string, fallback *entities.Donation) (*domain.Donation, error) {
	donation, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		donation = fallback
	}
	response := toDonationResponse(donation)
	return &response, nil
}

func validateSchedule(expiry, pickupStart, pickupEnd, now time.Time) error {
	if !expiry.After(now) {
		return domain.ErrInvalidExpiryDatetime
	}
	if expiry.After(now.Add(maxExpiryHorizon)) {
		return domain.ErrExpiryTooFarInFuture
	}
	if !pickupEnd.After(pickupStart) || pickupEnd.After(expiry) {
		return domain.ErrInvalidPickupWindow
	}
	if pickupEnd.Sub(pickupStart) > maxPickupWindow {
		return domain.ErrPickupWindowTooLong
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return page, limit
}

func toDonationResponses(donations []*entities.Donation) []domain.Donation {
	result := make([]domain.Donation, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDonationResponse(d))
	}
	return result
}

func toDonationResponse(d *entities.Donation) domain.Donation {
	response := domain.Donation{
		ID:                d.ID.String(),
		DonorID:           d.DonorID.String(),
		Title:             d.Title,
		Description:       d.Description,
		FoodCategory:      d.FoodCategory,
		Quantity:          d.Quantity,
		Status:            d.Status,
		ExpiryDatetime:    d.ExpiryDatetime,
		PickupStart:       d.PickupStart,
		PickupEnd:         d.PickupEnd,
		PickupLocation:    d.PickupLocation,
		Latitude:          d.Latitude,
		Longitude:         d.Longitude,
		ImageURL:          d.ImageURL,
		DietaryTags:       decodeTags(d.DietaryTags),
		EstimatedCalories: d.EstimatedCalories,
		NutritionScore:    d.NutritionScore,
		IngredientsList:   d.IngredientsList,
		AllergenInfo:      d.AllergenInfo,
		ClaimedAt:         d.ClaimedAt,
		CompletedAt:       d.CompletedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.Donor != nil {
		response.DonorName = d.Donor.Name
		response.DonorRating = d.Donor.AverageRating
	}
	if d.RecipientID != nil {
		response.RecipientID = d.RecipientID.String()
	}
	if d.Recipient != nil {
		response.RecipientName = d.Recipient.Name
	}
	return response
}

func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}
