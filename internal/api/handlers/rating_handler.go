package handlers

import (
	"Foodloop-Backend/domain"
	"Foodloop-Backend/internal/api/presenters"
	"Foodloop-Backend/pkg/rating"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RatingHandler interface {
		CreateRating(c *fiber.Ctx) error
		GetUserRatings(c *fiber.Ctx) error
		GetDonationRatings(c *fiber.Ctx) error
	}

	ratingHandler struct {
		ratingService rating.RatingService
		validator     *validator.Validate
	}
)

func NewRatingHandler(ratingService rating.RatingService, validator *validator.Validate) RatingHandler {
	return &ratingHandler{
		ratingService: ratingService,
		validator:     validator,
	}
}

func statusForRatingError(err error) int {
	switch err {
	case domain.ErrDonationNotFound, domain.ErrUserNotFound:
		return fiber.StatusNotFound
	case domain.ErrRatingNotAllowed, domain.ErrRatingSelf:
		return fiber.StatusForbidden
	case domain.ErrAlreadyRated, domain.ErrRatingNotCompleted, domain.ErrRatingWindowClosed:
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

func (h *ratingHandler) CreateRating(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RatingRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRating, err)
	}

	res, err := h.ratingService.CreateRating(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForRatingError(err), domain.MessageFailedCreateRating, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRating)
}

func (h *ratingHandler) GetUserRatings(c *fiber.Ctx) error {
	userID := c.Params("id")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	res, total, err := h.ratingService.GetUserRatings(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRatings, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"ratings": res,
		"total":   total,
		"page":    page,
		"limit":   limit,
	}, fiber.StatusOK, domain.MessageSuccessGetRatings)
}

func (h *ratingHandler) GetDonationRatings(c *fiber.Ctx) error {
	donationID := c.Params("id")

	res, err := h.ratingService.GetDonationRatings(c.Context(), donationID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRatings, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRatings)
}
