package config

import (
	"Foodloop-Backend/internal/api/handlers"
	"Foodloop-Backend/internal/api/routes"
	"Foodloop-Backend/internal/middleware"
	"Foodloop-Backend/internal/utils"
	"Foodloop-Backend/internal/utils/cache"
	"Foodloop-Backend/internal/utils/storage"
	"Foodloop-Backend/pkg/analytics"
	"Foodloop-Backend/pkg/donation"
	"Foodloop-Backend/pkg/jwt"
	"Foodloop-Backend/pkg/notification"
	"Foodloop-Backend/pkg/rating"
	"Foodloop-Backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	rdb := redis.NewClient(&redis.Options{
		Addr:     utils.GetConfig("REDIS_ADDR"),
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       0,
	})
	cacheManager := cache.NewCacheManager(rdb)

	// Repository
	userRepository := user.NewUserRepository(db)
	donationRepository := donation.NewDonationRepository(db)
	ratingRepository := rating.NewRatingRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)
	analyticsRepository := analytics.NewAnalyticsRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3)
	notificationService := notification.NewNotificationService(notificationRepository, userRepository, cacheManager)
	donationService := donation.NewDonationService(donationRepository, userRepository, notificationService, cacheManager, s3)
	ratingService := rating.NewRatingService(ratingRepository, donationRepository, userRepository, notificationService)
	analyticsService := analytics.NewAnalyticsService(analyticsRepository, donationRepository, userRepository, cacheManager)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	donationHandler := handlers.NewDonationHandler(donationService, validator)
	ratingHandler := handlers.NewRatingHandler(ratingService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		DonationHandler:     donationHandler,
		RatingHandler:       ratingHandler,
		NotificationHandler: notificationHandler,
		AnalyticsHandler:    analyticsHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
