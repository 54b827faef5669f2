package service

import (
	"context"
	"testing"

	"sabuzz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	svc := env.postService()
	ctx := context.Background()

	journalist := env.createJournalist(t, "writer")
	reader := env.createReader(t, "reader")

	t.Run("Reader Cannot Author", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  reader.ID,
			Title:   "A Post",
			Content: "Body",
		})
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusFor(err))
	})

	t.Run("New Post Enters Moderation Queue", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  journalist.ID,
			Title:   "Breaking News",
			Content: "Details follow.",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusPending, post.Status)
	})

	t.Run("Draft Stays Out Of Queue", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:      journalist.ID,
			Title:       "Work In Progress",
			Content:     "Half written.",
			SaveAsDraft: true,
		})
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusDraft, post.Status)
	})

	t.Run("Title Required", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:  journalist.ID,
			Title:   "   ",
			Content: "Body",
		})
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusFor(err))
	})

	t.Run("Unknown Category Rejected", func(t *testing.T) {
		missing := uint(9999)
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:     journalist.ID,
			Title:      "Categorized",
			Content:    "Body",
			CategoryID: &missing,
		})
		assert.Error(t, err)
	})
}

func TestGetPostVisibility(t *testing.T) {
	env := newTestEnv(t)
	svc := env.postService()
	ctx := context.Background()

	author := env.createJournalist(t, "author")
	otherJournalist := env.createJournalist(t, "colleague")
	reader := env.createReader(t, "reader")
	admin := env.createAdmin(t, "admin")

	published := env.createPost(t, author, models.PostStatusPublished)
	draft := env.createPost(t, author, models.PostStatusDraft)

	t.Run("Published Visible To Anyone", func(t *testing.T) {
		post, err := svc.GetPost(ctx, published.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, published.ID, post.ID)
	})

	t.Run("Draft Hidden From Anonymous", func(t *testing.T) {
		_, err := svc.GetPost(ctx, draft.ID, 0)
		require.Error(t, err)
		// hidden posts look absent, not forbidden
		assert.Equal(t, 404, models.StatusFor(err))
	})

	t.Run("Draft Hidden From Unrelated Reader", func(t *testing.T) {
		_, err := svc.GetPost(ctx, draft.ID, reader.ID)
		require.Error(t, err)
		assert.Equal(t, 404, models.StatusFor(err))
	})

	t.Run("Draft Visible To Author", func(t *testing.T) {
		_, err := svc.GetPost(ctx, draft.ID, author.ID)
		assert.NoError(t, err)
	})

	t.Run("Draft Visible To Other Journalists", func(t *testing.T) {
		_, err := svc.GetPost(ctx, draft.ID, otherJournalist.ID)
		assert.NoError(t, err)
	})

	t.Run("Draft Visible To Superuser", func(t *testing.T) {
		_, err := svc.GetPost(ctx, draft.ID, admin.ID)
		assert.NoError(t, err)
	})
}

func TestSubmitPost(t *testing.T) {
	env := newTestEnv(t)
	svc := env.postService()
	ctx := context.Background()

	author := env.createJournalist(t, "author")
	other := env.createJournalist(t, "other")

	t.Run("Draft Moves To Pending", func(t *testing.T) {
		draft := env.createPost(t, author, models.PostStatusDraft)
		post, err := svc.SubmitPost(ctx, author.ID, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusPending, post.Status)
	})

	t.Run("Resubmitting Pending Is No-Op", func(t *testing.T) {
		pending := env.createPost(t, author, models.PostStatusPending)
		post, err := svc.SubmitPost(ctx, author.ID, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusPending, post.Status)
	})

	t.Run("Published Post Cannot Be Resubmitted", func(t *testing.T) {
		published := env.createPost(t, author, models.PostStatusPublished)
		_, err := svc.SubmitPost(ctx, author.ID, published.ID)
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusFor(err))
	})

	t.Run("Only The Author Submits", func(t *testing.T) {
		draft := env.createPost(t, author, models.PostStatusDraft)
		_, err := svc.SubmitPost(ctx, other.ID, draft.ID)
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusFor(err))
	})
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	svc := env.postService()
	ctx := context.Background()

	author := env.createJournalist(t, "author")
	other := env.createJournalist(t, "other")
	admin := env.createAdmin(t, "admin")

	t.Run("Editing Keeps Moderation Status", func(t *testing.T) {
		pending := env.createPost(t, author, models.PostStatusPending)
		post, err := svc.UpdatePost(ctx, UpdatePostInput{
			UserID:  author.ID,
			PostID:  pending.ID,
			Title:   "Edited Title",
			Content: "Edited body.",
		})
		require.NoError(t, err)
		assert.Equal(t, "Edited Title", post.Title)
		assert.Equal(t, models.PostStatusPending, post.Status)
	})

	t.Run("Other Journalists Cannot Edit", func(t *testing.T) {
		pending := env.createPost(t, author, models.PostStatusPending)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{
			UserID: other.ID,
			PostID: pending.ID,
			Title:  "Hijacked",
		})
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusFor(err))
	})

	t.Run("Superuser Can Edit Any Post", func(t *testing.T) {
		pending := env.createPost(t, author, models.PostStatusPending)
		post, err := svc.UpdatePost(ctx, UpdatePostInput{
			UserID: admin.ID,
			PostID: pending.ID,
			Title:  "Corrected Title",
		})
		require.NoError(t, err)
		assert.Equal(t, "Corrected Title", post.Title)
	})
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	svc := env.postService()
	ctx := context.Background()

	author := env.createJournalist(t, "author")
	reader := env.createReader(t, "reader")

	post := env.createPost(t, author, models.PostStatusPublished)

	err := svc.DeletePost(ctx, reader.ID, post.ID)
	require.Error(t, err)
	assert.Equal(t, 403, models.StatusFor(err))

	require.NoError(t, svc.DeletePost(ctx, author.ID, post.ID))

	_, err = svc.GetPost(ctx, post.ID, author.ID)
	assert.Error(t, err)
}

func TestListPublished(t *testing.T) {
	env := newTestEnv(t)
	svc := env.postService()
	ctx := context.Background()

	author := env.createJournalist(t, "author")
	env.createPost(t, author, models.PostStatusPublished)
	env.createPost(t, author, models.PostStatusPublished)
	env.createPost(t, author, models.PostStatusDraft)
	env.createPost(t, author, models.PostStatusPending)

	posts, err := svc.ListPublished(ctx, ListPostsInput{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, models.PostStatusPublished, p.Status)
	}
}

func TestListPublishedByCategory(t *testing.T) {
	env := newTestEnv(t)
	svc := env.postService()
	ctx := context.Background()

	author := env.createJournalist(t, "author")

	category := &models.Category{Name: "Politics"}
	require.NoError(t, env.categories.Create(ctx, category))

	inCategory := env.createPost(t, author, models.PostStatusPublished)
	inCategory.CategoryID = &category.ID
	require.NoError(t, env.posts.Update(ctx, inCategory))
	env.createPost(t, author, models.PostStatusPublished)

	posts, err := svc.ListPublished(ctx, ListPostsInput{Limit: 20, Category: &category.ID})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, inCategory.ID, posts[0].ID)
}
