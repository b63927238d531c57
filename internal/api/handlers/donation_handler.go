package handlers

import (
	"strconv"
	"strings"

	"Foodloop-Backend/domain"
	"Foodloop-Backend/internal/api/presenters"
	"Foodloop-Backend/pkg/donation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		CreateDonation(c *fiber.Ctx) error
		GetDonation(c *fiber.Ctx) error
		UpdateDonation(c *fiber.Ctx) error
		ClaimDonation(c *fiber.Ctx) error
		CompleteDonation(c *fiber.Ctx) error
		CancelDonation(c *fiber.Ctx) error
		SearchDonations(c *fiber.Ctx) error
		GetMyDonations(c *fiber.Ctx) error
		GetDonationStats(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		validator:       validator,
	}
}

// statusForDonationError maps lifecycle errors onto HTTP statuses. Losing a
// claim race is a conflict, not a client mistake.
func statusForDonationError(err error) int {
	switch err {
	case domain.ErrDonationNotFound:
		return fiber.StatusNotFound
	case domain.ErrUnauthorizedDonationAccess:
		return fiber.StatusForbidden
	case domain.ErrDonationNotAvailable, domain.ErrDonationExpired,
		domain.ErrPickupWindowPassed, domain.ErrTooManyActiveClaims,
		domain.ErrOnlyClaimedCanComplete, domain.ErrCannotCancelDonation,
		domain.ErrDonationNotEditable:
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

func (h *donationHandler) CreateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.DonationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if file, err := c.FormFile("image"); err == nil {
		req.Image = file
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	res, err := h.donationService.CreateDonation(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

func (h *donationHandler) GetDonation(c *fiber.Ctx) error {
	donationID := c.Params("id")

	res, err := h.donationService.GetDonationByID(c.Context(), donationID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) UpdateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")
	req := new(domain.UpdateDonationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDonation, err)
	}

	res, err := h.donationService.UpdateDonation(c.Context(), donationID, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedUpdateDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateDonation)
}

func (h *donationHandler) ClaimDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	res, err := h.donationService.ClaimDonation(c.Context(), donationID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedClaimDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessClaimDonation)
}

func (h *donationHandler) CompleteDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	res, err := h.donationService.CompleteDonation(c.Context(), donationID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedCompleteDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCompleteDonation)
}

func (h *donationHandler) CancelDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	res, err := h.donationService.CancelDonation(c.Context(), donationID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedCancelDonation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCancelDonation)
}

func (h *donationHandler) SearchDonations(c *fiber.Ctx) error {
	req := domain.SearchDonationsRequest{
		Query:        c.Query("q"),
		FoodCategory: c.Query("food_category"),
	}
	if maxCalories, err := strconv.Atoi(c.Query("max_calories", "0")); err == nil {
		req.MaxCalories = maxCalories
	}
	if minScore, err := strconv.Atoi(c.Query("min_nutrition_score", "0")); err == nil {
		req.MinNutritionScore = minScore
	}
	if tags := c.Query("dietary_tags"); tags != "" {
		req.DietaryTags = splitCSV(tags)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDonations, err)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	res, total, err := h.donationService.SearchDonations(c.Context(), req, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": res,
		"total":     total,
		"page":      page,
		"limit":     limit,
	}, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetMyDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	status := c.Query("status")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	res, total, err := h.donationService.GetUserDonations(c.Context(), userID, status, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": res,
		"total":     total,
		"page":      page,
		"limit":     limit,
	}, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetDonationStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.donationService.GetDonationStats(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForDonationError(err), domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func splitCSV(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
