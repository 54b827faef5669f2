package service

import (
	"context"
	"path/filepath"
	"testing"

	"sabuzz/internal/authz"
	"sabuzz/internal/database"
	"sabuzz/internal/models"
	"sabuzz/internal/notifications"
	"sabuzz/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories over a throwaway SQLite database so
// service behavior is exercised end to end, including the filtered
// status transitions.
type testEnv struct {
	db            *gorm.DB
	users         repository.UserRepository
	posts         repository.PostRepository
	comments      repository.CommentRepository
	categories    repository.CategoryRepository
	engagement    repository.EngagementRepository
	journalists   repository.JournalistRepository
	notifications repository.NotificationRepository
	notifier      *notifications.Notifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	env := &testEnv{
		db:            db,
		users:         repository.NewUserRepository(db),
		posts:         repository.NewPostRepository(db),
		comments:      repository.NewCommentRepository(db),
		categories:    repository.NewCategoryRepository(db),
		engagement:    repository.NewEngagementRepository(db),
		journalists:   repository.NewJournalistRepository(db),
		notifications: repository.NewNotificationRepository(db),
	}
	env.notifier = notifications.NewNotifier(env.notifications, nil)
	return env
}

func (e *testEnv) roleFor(ctx context.Context, userID uint) (authz.Role, error) {
	user, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return authz.Anonymous, err
	}
	return authz.RoleFor(user), nil
}

func (e *testEnv) postService() *PostService {
	return NewPostService(e.posts, e.categories, e.roleFor)
}

func (e *testEnv) commentService() *CommentService {
	return NewCommentService(e.comments, e.posts, e.notifier, e.roleFor)
}

func (e *testEnv) userService() *UserService {
	return NewUserService(e.users, e.journalists)
}

func (e *testEnv) moderationService() *ModerationService {
	return NewModerationService(
		e.posts, e.comments, e.users, e.journalists, e.engagement, e.categories, e.notifier)
}

func (e *testEnv) createReader(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant-hash",
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) createJournalist(t *testing.T, username string) *models.User {
	t.Helper()
	user := e.createReader(t, username)
	require.NoError(t, e.users.AddToGroup(context.Background(), user.ID, models.JournalistsGroup))
	return user
}

func (e *testEnv) createAdmin(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "irrelevant-hash",
		IsSuperuser: true,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) createPost(t *testing.T, author *models.User, status string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:   "Test Post",
		Content: "Some content",
		Status:  status,
		UserID:  author.ID,
	}
	require.NoError(t, e.posts.Create(context.Background(), post))
	return post
}
