package server

import (
	"context"
	"net/http"
	"testing"

	"sabuzz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPosts(t *testing.T) {
	s, app := newTestServer(t)
	author := seedJournalist(t, s, "feedwriter")

	seedPost(t, s, author, models.PostStatusPublished)
	seedPost(t, s, author, models.PostStatusPublished)
	seedPost(t, s, author, models.PostStatusDraft)
	seedPost(t, s, author, models.PostStatusPending)

	t.Run("Feed Contains Only Published Posts", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		posts, ok := body["posts"].([]any)
		require.True(t, ok)
		assert.Len(t, posts, 2)
	})

	t.Run("Category Filter", func(t *testing.T) {
		category := &models.Category{Name: "Politics"}
		require.NoError(t, s.categoryRepo.Create(context.Background(), category))

		post := seedPost(t, s, author, models.PostStatusPublished)
		post.CategoryID = &category.ID
		require.NoError(t, s.postRepo.Update(context.Background(), post))

		resp, err := app.Test(jsonRequest(http.MethodGet,
			"/api/posts/?category="+itoa(category.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		posts, ok := body["posts"].([]any)
		require.True(t, ok)
		assert.Len(t, posts, 1)
	})
}

func TestGetPostVisibilityOverHTTP(t *testing.T) {
	s, app := newTestServer(t)
	author := seedJournalist(t, s, "visauthor")
	reader := seedUser(t, s, "visreader", false)

	published := seedPost(t, s, author, models.PostStatusPublished)
	draft := seedPost(t, s, author, models.PostStatusDraft)

	t.Run("Published Post Is Public", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet,
			"/api/posts/"+itoa(published.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Seeded Post", body["title"])
	})

	t.Run("Draft Hidden From Anonymous", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet,
			"/api/posts/"+itoa(draft.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Draft Hidden From Unrelated Reader", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, reader, http.MethodGet,
			"/api/posts/"+itoa(draft.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Author Sees Own Draft", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, author, http.MethodGet,
			"/api/posts/"+itoa(draft.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Unknown Post Is 404", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/99999", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCreatePostEndpoint(t *testing.T) {
	s, app := newTestServer(t)
	journalist := seedJournalist(t, s, "poster")
	reader := seedUser(t, s, "postreader", false)

	t.Run("Journalist Creates Pending Post", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, journalist, http.MethodPost, "/api/posts/",
			map[string]any{"title": "Load Shedding Update", "content": "Stage 4 returns."}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, models.PostStatusPending, body["status"])
		assert.Equal(t, "Load Shedding Update", body["title"])
	})

	t.Run("Draft Flag Keeps Post Out Of The Queue", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, journalist, http.MethodPost, "/api/posts/",
			map[string]any{"title": "Notes", "content": "Half written.", "draft": true}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, models.PostStatusDraft, body["status"])
	})

	t.Run("Reader Cannot Author", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, reader, http.MethodPost, "/api/posts/",
			map[string]any{"title": "Nope", "content": "Readers cannot post."}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Blank Title Is Rejected", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, journalist, http.MethodPost, "/api/posts/",
			map[string]any{"title": "   ", "content": "No title."}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Anonymous Is Rejected", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/posts/",
			map[string]any{"title": "Anon", "content": "No token."}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestSubmitAndUpdatePostEndpoints(t *testing.T) {
	s, app := newTestServer(t)
	journalist := seedJournalist(t, s, "submitter")
	colleague := seedJournalist(t, s, "colleague")

	t.Run("Submit Moves Draft To Pending", func(t *testing.T) {
		draft := seedPost(t, s, journalist, models.PostStatusDraft)

		resp, err := app.Test(authedRequest(t, s, journalist, http.MethodPost,
			"/api/posts/"+itoa(draft.ID)+"/submit", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, models.PostStatusPending, body["status"])
	})

	t.Run("Only The Author Submits", func(t *testing.T) {
		draft := seedPost(t, s, journalist, models.PostStatusDraft)

		resp, err := app.Test(authedRequest(t, s, colleague, http.MethodPost,
			"/api/posts/"+itoa(draft.ID)+"/submit", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Author Updates Own Post", func(t *testing.T) {
		post := seedPost(t, s, journalist, models.PostStatusDraft)

		resp, err := app.Test(authedRequest(t, s, journalist, http.MethodPut,
			"/api/posts/"+itoa(post.ID),
			map[string]any{"title": "Revised Title", "content": "Revised body."}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Revised Title", body["title"])
	})

	t.Run("Author Deletes Own Post", func(t *testing.T) {
		post := seedPost(t, s, journalist, models.PostStatusDraft)

		resp, err := app.Test(authedRequest(t, s, journalist, http.MethodDelete,
			"/api/posts/"+itoa(post.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = app.Test(authedRequest(t, s, journalist, http.MethodGet,
			"/api/posts/"+itoa(post.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	s, app := newTestServer(t)
	admin := seedUser(t, s, "catadmin", true)
	reader := seedUser(t, s, "catreader", false)

	t.Run("Admin Creates Category", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, admin, http.MethodPost, "/api/admin/categories/",
			map[string]any{"name": "Sport", "description": "Match reports"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Sport", body["name"])
	})

	t.Run("Category Name Is Required", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, admin, http.MethodPost, "/api/admin/categories/",
			map[string]any{"description": "nameless"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Reader Cannot Create Category", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, reader, http.MethodPost, "/api/admin/categories/",
			map[string]any{"name": "Blocked"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Listing Is Public", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/categories", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		categories, ok := body["categories"].([]any)
		require.True(t, ok)
		assert.Len(t, categories, 1)
	})

	t.Run("Deleting A Category Keeps Its Posts", func(t *testing.T) {
		category := &models.Category{Name: "Ephemeral"}
		require.NoError(t, s.categoryRepo.Create(context.Background(), category))

		author := seedJournalist(t, s, "catauthor")
		post := seedPost(t, s, author, models.PostStatusPublished)
		post.CategoryID = &category.ID
		require.NoError(t, s.postRepo.Update(context.Background(), post))

		resp, err := app.Test(authedRequest(t, s, admin, http.MethodDelete,
			"/api/admin/categories/"+itoa(category.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = app.Test(jsonRequest(http.MethodGet, "/api/posts/"+itoa(post.ID), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
