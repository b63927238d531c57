package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"Foodloop-Backend/cmd/config"
	"Foodloop-Backend/internal/queue/tasks"
	"Foodloop-Backend/internal/utils"
	"Foodloop-Backend/internal/utils/cache"
	"Foodloop-Backend/pkg/donation"
	"Foodloop-Backend/pkg/notification"
	"Foodloop-Backend/pkg/user"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on config.yaml and environment")
	}
	utils.LoadConfig()

	redisOpt := asynq.RedisClientOpt{
		Addr:     utils.GetConfig("REDIS_ADDR"),
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       0,
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisOpt.Addr,
		Password: redisOpt.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	userRepository := user.NewUserRepository(db)
	donationRepository := donation.NewDonationRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)
	cacheManager := cache.NewCacheManager(rdb)
	notificationService := notification.NewNotificationService(notificationRepository, userRepository, cacheManager)

	donationTasks := tasks.NewDonationTaskHandler(donationRepository, notificationService)
	notificationTasks := tasks.NewNotificationTaskHandler(notificationService)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeMarkExpired, donationTasks.HandleMarkExpired)
	mux.HandleFunc(tasks.TypeExpiryReminders, donationTasks.HandleExpiryReminders)
	mux.HandleFunc(tasks.TypeNotificationCleanup, notificationTasks.HandleCleanup)

	srv := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register("@every 30m", asynq.NewTask(tasks.TypeMarkExpired, nil)); err != nil {
		log.Fatalf("failed to register expiry sweep: %v", err)
	}
	if _, err := scheduler.Register("@every 1h", asynq.NewTask(tasks.TypeExpiryReminders, nil)); err != nil {
		log.Fatalf("failed to register expiry reminders: %v", err)
	}
	if _, err := scheduler.Register("0 3 * * *", asynq.NewTask(tasks.TypeNotificationCleanup, nil)); err != nil {
		log.Fatalf("failed to register notification cleanup: %v", err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Println("worker starting")
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Println("scheduler starting")
		if err := scheduler.Run(); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("worker stopped with error: %v", err)
	}

	scheduler.Shutdown()
	srv.Shutdown()
}
