// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"sabuzz/internal/authz"
	"sabuzz/internal/cache"
	"sabuzz/internal/config"
	"sabuzz/internal/database"
	"sabuzz/internal/middleware"
	"sabuzz/internal/models"
	"sabuzz/internal/news"
	"sabuzz/internal/notifications"
	"sabuzz/internal/repository"
	"sabuzz/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config            *config.Config
	db                *gorm.DB
	redis             *redis.Client
	app               *fiber.App
	promMiddleware    *fiberprometheus.FiberPrometheus
	shutdownCtx       context.Context
	shutdownFn        context.CancelFunc
	userRepo          repository.UserRepository
	postRepo          repository.PostRepository
	commentRepo       repository.CommentRepository
	categoryRepo      repository.CategoryRepository
	engagementRepo    repository.EngagementRepository
	journalistRepo    repository.JournalistRepository
	notificationRepo  repository.NotificationRepository
	notifier          *notifications.Notifier
	postService       *service.PostService
	commentService    *service.CommentService
	userService       *service.UserService
	moderationService *service.ModerationService
	imageService      *service.ImageService
	newsClient        *news.Client
	weatherClient     *news.WeatherClient
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	journalistRepo := repository.NewJournalistRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	prom := middleware.InitMetrics("sabuzz-api")

	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   prom,
		userRepo:         userRepo,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		categoryRepo:     categoryRepo,
		engagementRepo:   engagementRepo,
		journalistRepo:   journalistRepo,
		notificationRepo: notificationRepo,
	}

	server.notifier = notifications.NewNotifier(notificationRepo, redisClient)
	server.postService = service.NewPostService(postRepo, categoryRepo, server.roleForUserID)
	server.commentService = service.NewCommentService(commentRepo, postRepo, server.notifier, server.roleForUserID)
	server.userService = service.NewUserService(userRepo, journalistRepo)
	server.moderationService = service.NewModerationService(
		postRepo, commentRepo, userRepo, journalistRepo, engagementRepo, categoryRepo, server.notifier)
	server.imageService = service.NewImageService(cfg)
	server.newsClient = news.NewClient(cfg)
	server.weatherClient = news.NewWeatherClient(cfg)

	return server, nil
}

// roleForUserID loads the user with groups and derives their site role.
func (s *Server) roleForUserID(ctx context.Context, userID uint) (authz.Role, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return authz.Anonymous, err
	}
	return authz.RoleFor(user), nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing spans
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Sabuzz Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public browsing
	publicPosts := api.Group("/posts")
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	api.Get("/categories", s.GetCategories)

	// Syndicated news and weather
	newsGroup := api.Group("/news")
	newsGroup.Get("/", s.GetNews)
	newsGroup.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "news_search"), s.SearchNews)
	newsGroup.Get("/category/:category", s.GetNewsByCategory)
	api.Get("/weather", s.GetWeather)

	// Newsletter signup works for visitors and accounts alike
	api.Post("/subscribe", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "subscribe"), s.Subscribe)

	// Stored cover images
	app.Get("/media/i/:hash/cover.:format", s.ServeImage)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/notifications", s.GetMyNotifications)
	users.Post("/me/notifications/read-all", s.MarkAllNotificationsRead)
	users.Post("/me/notifications/:id/read", s.MarkNotificationRead)
	users.Get("/me/saved-posts", s.GetMySavedPosts)

	// Journalist application
	protected.Post("/journalist-requests", s.ApplyJournalist)

	// Authoring
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/mine", s.GetMyPosts)
	posts.Post("/:id/submit", s.SubmitPost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/save", s.SavePost)
	posts.Delete("/:id/save", s.UnsavePost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Comment editing
	comments := protected.Group("/comments")
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// External article bookmarks
	favorites := protected.Group("/favorites")
	favorites.Post("/", s.CreateFavorite)
	favorites.Get("/", s.GetFavorites)
	favorites.Delete("/:id", s.DeleteFavorite)

	savedArticles := protected.Group("/saved-articles")
	savedArticles.Post("/", s.CreateSavedArticle)
	savedArticles.Get("/", s.GetSavedArticles)
	savedArticles.Delete("/:id", s.DeleteSavedArticle)

	// Cover image upload
	protected.Post("/images", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "upload_image"), s.UploadImage)

	// Staff area. Journalists may read the dashboard and the subscriber
	// roll; everything below tightens to superusers.
	admin := protected.Group("/admin", s.JournalistRequired())
	admin.Get("/dashboard", s.GetDashboardStats)
	admin.Get("/subscribers", s.GetSubscribers)

	adminUsers := admin.Group("/users", s.SuperuserRequired())
	adminUsers.Get("/", s.GetAllUsers)
	adminUsers.Post("/:id/promote", s.PromoteToSuperuser)
	adminUsers.Post("/:id/demote", s.DemoteFromSuperuser)

	adminPosts := admin.Group("/posts", s.SuperuserRequired())
	adminPosts.Get("/pending", s.GetPendingPosts)
	adminPosts.Post("/:id/approve", s.ApprovePost)
	adminPosts.Post("/:id/reject", s.RejectPost)

	adminComments := admin.Group("/comments", s.SuperuserRequired())
	adminComments.Get("/", s.GetAllComments)
	adminComments.Post("/:id/approve", s.ApproveComment)
	adminComments.Delete("/:id", s.AdminDeleteComment)

	adminRequests := admin.Group("/journalist-requests", s.SuperuserRequired())
	adminRequests.Get("/", s.GetJournalistRequests)
	adminRequests.Post("/:id/approve", s.ApproveJournalistRequest)
	adminRequests.Post("/:id/reject", s.RejectJournalistRequest)

	adminCategories := admin.Group("/categories", s.SuperuserRequired())
	adminCategories.Post("/", s.CreateCategory)
	adminCategories.Delete("/:id", s.DeleteCategory)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The site serves without Redis, only losing cache and pub/sub.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Sabuzz",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// JournalistRequired returns middleware that admits journalists and
// superusers. Must be placed after AuthRequired so that userID is available
// in locals.
func (s *Server) JournalistRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		role, err := s.roleForUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !role.IsJournalist() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Journalist access required"))
		}

		return c.Next()
	}
}

// SuperuserRequired returns middleware that rejects non-superusers with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) SuperuserRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		role, err := s.roleForUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !role.CanModerate() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Superuser access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "sabuzz-api" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "sabuzz-client" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		// Store user ID in context
		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID attempts to extract userID from the Authorization header
// but does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	// Fan-out hook for future push transports; today it only logs.
	if err := s.notifier.StartPatternSubscriber(ctx, func(channel, payload string) {
		middleware.Logger.Debug("notification published", "channel", channel)
	}); err != nil {
		log.Printf("notification subscriber unavailable: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "Sabuzz API",
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
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
