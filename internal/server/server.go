// Package server contains the HTTP handlers and wiring for the bloghub API.
package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/cache"
	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/featureflags"
	"bloghub/internal/jobs"
	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/repository"
	"bloghub/internal/service"
	"bloghub/internal/weather"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const memoryQueueSize = 256

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	store          cache.Store
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	logger         *slog.Logger
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	tokens       *auth.TokenManager
	featureFlags *featureflags.Manager
	queue        jobs.Queue
	worker       *jobs.Worker
	scheduler    *jobs.Scheduler

	weather         *weather.Gateway
	weatherLocation weather.Location

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	authService *service.AuthService
	postService *service.PostService
	userService *service.UserService
}

// NewServer connects to the database and Redis and builds a Server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// nil when Redis is unreachable; in-process stores take over.
	redisClient := cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case the cache and job queue live in process memory.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	logger := middleware.Logger

	var (
		store cache.Store
		queue jobs.Queue
	)
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient)
		queue = jobs.NewRedisQueue(redisClient)
	} else {
		store = cache.NewMemoryStore()
		queue = jobs.NewMemoryQueue(memoryQueueSize)
	}

	flags := featureflags.NewManager(cfg.FeatureFlags)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL(), store)
	gateway := weather.NewGateway(store, weather.NewClient(cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey), logger)

	userRepo := repository.NewUserRepository(db, store)
	postRepo := repository.NewPostRepository(db)

	s := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		store:           store,
		promMiddleware:  middleware.InitMetrics("bloghub-api"),
		logger:          logger,
		tokens:          tokens,
		featureFlags:    flags,
		queue:           queue,
		weather:         gateway,
		weatherLocation: weather.NewLocation(cfg.WeatherLocation),
		userRepo:        userRepo,
		postRepo:        postRepo,
	}

	s.authService = service.NewAuthService(userRepo, tokens, jobs.NewDispatcher(queue, flags, logger))
	s.postService = service.NewPostService(postRepo)
	s.userService = service.NewUserService(userRepo)

	s.worker = jobs.NewWorker(queue, logger)
	s.worker.Register(jobs.TypeSendWelcomeEmail, jobs.WelcomeEmailHandler(jobs.LogMailer{Logger: logger}))
	s.worker.Register(jobs.TypeUpdateWeather,
		jobs.UpdateWeatherHandler(gateway, weather.NewLocation(cfg.WeatherRefreshLocation), logger))

	if flags.Enabled(featureflags.WeatherRefresh, 0) {
		s.scheduler = jobs.NewScheduler(queue, jobs.TypeUpdateWeather, cfg.WeatherRefreshInterval(), logger)
	}

	return s, nil
}

// NewApp returns a Fiber app whose framework errors are answered with the response envelope.
func (s *Server) NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "bloghub API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger(s.logger))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Public routes
	api.Post("/register", s.Register)
	api.Post("/login", s.Login)
	api.Get("/weather", s.GetWeather)

	// Protected routes. AuthRequired is attached per route so unknown paths still answer 404.
	authed := s.AuthRequired()
	api.Post("/logout", authed, s.Logout)
	api.Get("/user", authed, s.GetCurrentUser)

	api.Get("/posts", authed, s.GetPosts)
	api.Post("/posts", authed, s.CreatePost)
	api.Get("/posts/:id", authed, s.GetPost)
	api.Patch("/posts/:id", authed, s.UpdatePost)
	api.Delete("/posts/:id", authed, s.DeletePost)

	api.Get("/users/:id", authed, s.GetUserProfile)
}

// StartBackground runs the job worker and, when enabled, the weather scheduler until ctx is done.
func (s *Server) StartBackground(ctx context.Context) {
	go s.worker.Run(ctx)
	if s.scheduler != nil {
		go s.scheduler.Run(ctx)
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.NewApp()
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.StartBackground(s.shutdownCtx)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stops the worker and scheduler.
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Running without Redis is a supported
// mode, so a missing client is reported as "disabled" and does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired resolves the bearer token to a user before the handler runs.
// Missing, malformed, expired and revoked tokens all answer 401.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			return models.Unauthorized(c)
		}

		claims, err := s.tokens.Verify(c.UserContext(), tokenString)
		if err != nil {
			if !isTokenRejection(err) {
				s.logger.ErrorContext(c.UserContext(), "token verification failed",
					slog.String("error", err.Error()),
				)
			}
			return models.Unauthorized(c)
		}

		userID, err := claims.UserID()
		if err != nil {
			return models.Unauthorized(c)
		}

		c.Locals("userID", userID)
		c.Locals("claims", claims)
		// Sync to UserContext for logging and downstream services
		c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))

		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
