package routes

import (
	"Foodloop-Backend/internal/api/handlers"
	"Foodloop-Backend/internal/middleware"
	"Foodloop-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	DonationHandler     handlers.DonationHandler
	RatingHandler       handlers.RatingHandler
	NotificationHandler handlers.NotificationHandler
	AnalyticsHandler    handlers.AnalyticsHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Donations()
	c.Ratings()
	c.Notifications()
	c.Analytics()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerification)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Patch("/update", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.UpdateUser)
		user.Get("/:id", c.UserHandler.GetPublicProfile)
		user.Get("/:id/ratings", c.RatingHandler.GetUserRatings)
	}
}

func (c *Config) Donations() {
	donations := c.App.Group("/api/v1/donations")

	donations.Get("", c.DonationHandler.SearchDonations)
	donations.Get("/mine", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.GetMyDonations)
	donations.Get("/stats", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.GetDonationStats)
	donations.Get("/:id", c.DonationHandler.GetDonation)
	donations.Get("/:id/ratings", c.RatingHandler.GetDonationRatings)

	donations.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.CreateDonation)
	donations.Patch("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.UpdateDonation)

	// Lifecycle transitions
	donations.Post("/:id/claim", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.ClaimDonation)
	donations.Post("/:id/complete", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.CompleteDonation)
	donations.Post("/:id/cancel", c.Middleware.AuthMiddleware(c.JWTService), c.DonationHandler.CancelDonation)
}

func (c *Config) Ratings() {
	ratings := c.App.Group("/api/v1/ratings", c.Middleware.AuthMiddleware(c.JWTService))
	ratings.Post("", c.RatingHandler.CreateRating)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))
	notifications.Get("", c.NotificationHandler.GetNotifications)
	notifications.Get("/unread_count", c.NotificationHandler.GetUnreadCount)
	notifications.Patch("/read_all", c.NotificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", c.NotificationHandler.MarkRead)
}

func (c *Config) Analytics() {
	analytics := c.App.Group("/api/v1/analytics")
	analytics.Get("/overview", c.AnalyticsHandler.GetPlatformOverview)
	analytics.Get("/trends", c.AnalyticsHandler.GetDonationTrends)
	analytics.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.AnalyticsHandler.GetUserAnalytics)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
