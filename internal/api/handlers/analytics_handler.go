package handlers

import (
	"Foodloop-Backend/domain"
	"Foodloop-Backend/internal/api/presenters"
	"Foodloop-Backend/pkg/analytics"

	"github.com/gofiber/fiber/v2"
)

type (
	AnalyticsHandler interface {
		GetPlatformOverview(c *fiber.Ctx) error
		GetUserAnalytics(c *fiber.Ctx) error
		GetDonationTrends(c *fiber.Ctx) error
	}

	analyticsHandler struct {
		analyticsService analytics.AnalyticsService
	}
)

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandler{
		analyticsService: analyticsService,
	}
}

func (h *analyticsHandler) GetPlatformOverview(c *fiber.Ctx) error {
	res, err := h.analyticsService.GetPlatformOverview(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAnalytics, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetAnalytics)
}

func (h *analyticsHandler) GetUserAnalytics(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	days := c.QueryInt("days", 30)

	res, err := h.analyticsService.GetUserAnalytics(c.Context(), userID, days)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAnalytics, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetAnalytics)
}

func (h *analyticsHandler) GetDonationTrends(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	res, err := h.analyticsService.GetDonationTrends(c.Context(), days)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAnalytics, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetAnalytics)
}
