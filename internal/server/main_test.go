package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"sabuzz/internal/config"
	"sabuzz/internal/database"
	"sabuzz/internal/models"
	"sabuzz/internal/news"
	"sabuzz/internal/notifications"
	"sabuzz/internal/repository"
	"sabuzz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer wires a Server over a throwaway SQLite database with no
// Redis and no metrics middleware. Rate limits are bypassed via APP_ENV.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	cfg := &config.Config{
		JWTSecret: "test-secret-key-for-tests-only",
		Env:       "test",
		Port:      "0",
		MediaDir:  t.TempDir(),
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	journalistRepo := repository.NewJournalistRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	s := &Server{
		config:           cfg,
		db:               db,
		userRepo:         userRepo,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		categoryRepo:     categoryRepo,
		engagementRepo:   engagementRepo,
		journalistRepo:   journalistRepo,
		notificationRepo: notificationRepo,
	}
	s.notifier = notifications.NewNotifier(notificationRepo, nil)
	s.postService = service.NewPostService(postRepo, categoryRepo, s.roleForUserID)
	s.commentService = service.NewCommentService(commentRepo, postRepo, s.notifier, s.roleForUserID)
	s.userService = service.NewUserService(userRepo, journalistRepo)
	s.moderationService = service.NewModerationService(
		postRepo, commentRepo, userRepo, journalistRepo, engagementRepo, categoryRepo, s.notifier)
	s.imageService = service.NewImageService(cfg)
	s.newsClient = news.NewClient(cfg)
	s.weatherClient = news.NewWeatherClient(cfg)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func authedRequest(t *testing.T, s *Server, user *models.User, method, target string, body any) *http.Request {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	req := jsonRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func seedUser(t *testing.T, s *Server, username string, superuser bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "$2a$10$not.a.real.hash.but.never.compared",
		IsSuperuser: superuser,
	}
	require.NoError(t, s.userRepo.Create(context.Background(), user))
	return user
}

func seedJournalist(t *testing.T, s *Server, username string) *models.User {
	t.Helper()
	user := seedUser(t, s, username, false)
	require.NoError(t, s.userRepo.AddToGroup(context.Background(), user.ID, models.JournalistsGroup))
	return user
}

func seedPost(t *testing.T, s *Server, author *models.User, status string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:   "Seeded Post",
		Content: "Seeded content",
		Status:  status,
		UserID:  author.ID,
	}
	require.NoError(t, s.postRepo.Create(context.Background(), post))
	return post
}
