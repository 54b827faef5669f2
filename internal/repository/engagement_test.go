package repository

import (
	"context"
	"testing"

	"sabuzz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "liker")
	post := createTestPost(t, db, user.ID, models.PostStatusPublished)

	require.NoError(t, repo.Like(ctx, user.ID, post.ID))
	require.NoError(t, repo.Like(ctx, user.ID, post.ID))

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	liked, err := repo.IsLiked(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestUnlike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "liker")
	post := createTestPost(t, db, user.ID, models.PostStatusPublished)

	require.NoError(t, repo.Like(ctx, user.ID, post.ID))
	require.NoError(t, repo.Unlike(ctx, user.ID, post.ID))

	liked, err := repo.IsLiked(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// unliking when no like exists is not an error
	assert.NoError(t, repo.Unlike(ctx, user.ID, post.ID))

	// the row is gone for good, so liking again works
	require.NoError(t, repo.Like(ctx, user.ID, post.ID))
	liked, err = repo.IsLiked(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestSavePostDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "saver")
	post := createTestPost(t, db, user.ID, models.PostStatusPublished)

	require.NoError(t, repo.SavePost(ctx, user.ID, post.ID))
	require.NoError(t, repo.SavePost(ctx, user.ID, post.ID))

	saved, err := repo.ListSavedPosts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, post.ID, saved[0].PostID)
	assert.Equal(t, post.Title, saved[0].Post.Title)

	require.NoError(t, repo.UnsavePost(ctx, user.ID, post.ID))
	saved, err = repo.ListSavedPosts(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestFavoritesAreOwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	fav := &models.Favorite{
		UserID: owner.ID,
		Title:  "External headline",
		Link:   "https://example.com/story",
	}
	require.NoError(t, repo.CreateFavorite(ctx, fav))

	// someone else cannot delete it
	err := repo.DeleteFavorite(ctx, other.ID, fav.ID)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusFor(err))

	require.NoError(t, repo.DeleteFavorite(ctx, owner.ID, fav.ID))

	favs, err := repo.ListFavorites(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestSavedArticlesAreOwnerScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	art := &models.SavedArticle{
		UserID:      owner.ID,
		Title:       "Long read",
		Description: "Saved for the weekend.",
		URL:         "https://example.com/longread",
		SourceName:  "Example Times",
	}
	require.NoError(t, repo.CreateSavedArticle(ctx, art))

	err := repo.DeleteSavedArticle(ctx, other.ID, art.ID)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusFor(err))

	arts, err := repo.ListSavedArticles(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, arts, 1)

	require.NoError(t, repo.DeleteSavedArticle(ctx, owner.ID, art.ID))
}

func TestSubscribeDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "subscriber")

	require.NoError(t, repo.Subscribe(ctx, "news@example.com", &user.ID))
	require.NoError(t, repo.Subscribe(ctx, "news@example.com", nil))
	require.NoError(t, repo.Subscribe(ctx, "visitor@example.com", nil))

	count, err := repo.CountSubscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	subs, err := repo.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}
