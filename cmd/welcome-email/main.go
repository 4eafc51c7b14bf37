// Command main queues a welcome email for an existing user.
//
// Usage: welcome-email <user_id>
//
// The job is pushed onto the Redis queue consumed by the server's worker,
// so Redis must be reachable.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"bloghub/internal/cache"
	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/jobs"
	"bloghub/internal/models"
	"bloghub/internal/repository"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: welcome-email <user_id>")
		return 2
	}
	userID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || userID == 0 {
		fmt.Fprintf(os.Stderr, "User with ID %s not found.\n", args[0])
		return 1
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	db, err := database.Connect(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}

	redisClient := cache.InitRedis(cfg.RedisURL)
	if redisClient == nil {
		fmt.Fprintln(os.Stderr, "Redis is unavailable; the job queue needs it to reach the worker.")
		return 1
	}
	defer func() { _ = redisClient.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db, cache.NewRedisStore(redisClient))
	user, err := users.GetByID(ctx, uint(userID))
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			fmt.Fprintf(os.Stderr, "User with ID %d not found.\n", userID)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Failed to load user: %v\n", err)
		return 1
	}

	job, err := jobs.NewJob(jobs.TypeSendWelcomeEmail, jobs.WelcomeEmailPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err == nil {
		err = jobs.NewRedisQueue(redisClient).Enqueue(ctx, job)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to dispatch welcome email: %v\n", err)
		return 1
	}

	fmt.Printf("Welcome email job dispatched for user: %s (%s)\n", user.Name, user.Email)
	return 0
}
