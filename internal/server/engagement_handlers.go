package server

import (
	"sabuzz/internal/models"
	"sabuzz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like. Liking twice leaves one like.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	// Visibility gate: posts the user cannot read cannot be liked.
	if _, err := s.postService.GetPost(c.Context(), postID, userID); err != nil {
		return respondServiceError(c, err)
	}

	if err := s.engagementRepo.Like(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	post, err := s.postService.GetPost(c.Context(), postID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// UnlikePost handles DELETE /api/posts/:id/like.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.engagementRepo.Unlike(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	post, err := s.postService.GetPost(c.Context(), postID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// SavePost handles POST /api/posts/:id/save. Saving an already saved post
// is a no-op.
func (s *Server) SavePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if _, err := s.postService.GetPost(c.Context(), postID, userID); err != nil {
		return respondServiceError(c, err)
	}

	if err := s.engagementRepo.SavePost(c.Context(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post saved"})
}

// UnsavePost handles DELETE /api/posts/:id/save.
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engagementRepo.UnsavePost(c.Context(), currentUserID(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unsaved"})
}

// GetMySavedPosts handles GET /api/users/me/saved-posts.
func (s *Server) GetMySavedPosts(c *fiber.Ctx) error {
	saved, err := s.engagementRepo.ListSavedPosts(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"saved_posts": saved})
}

// CreateFavorite handles POST /api/favorites and bookmarks an external
// article from the syndicated feed.
func (s *Server) CreateFavorite(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		ImageURL string `json:"image_url"`
		Source   string `json:"source"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Link == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and link are required"))
	}

	fav := &models.Favorite{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Link:     req.Link,
		ImageURL: req.ImageURL,
		Source:   req.Source,
	}
	if err := s.engagementRepo.CreateFavorite(c.Context(), fav); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fav)
}

// GetFavorites handles GET /api/favorites.
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	favorites, err := s.engagementRepo.ListFavorites(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"favorites": favorites})
}

// DeleteFavorite handles DELETE /api/favorites/:id. Owner only.
func (s *Server) DeleteFavorite(c *fiber.Ctx) error {
	favoriteID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engagementRepo.DeleteFavorite(c.Context(), currentUserID(c), favoriteID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Favorite removed"})
}

// CreateSavedArticle handles POST /api/saved-articles.
func (s *Server) CreateSavedArticle(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		ImageURL    string `json:"image_url"`
		SourceName  string `json:"source_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.URL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and url are required"))
	}

	article := &models.SavedArticle{
		UserID:      currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		ImageURL:    req.ImageURL,
		SourceName:  req.SourceName,
	}
	if err := s.engagementRepo.CreateSavedArticle(c.Context(), article); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// GetSavedArticles handles GET /api/saved-articles.
func (s *Server) GetSavedArticles(c *fiber.Ctx) error {
	articles, err := s.engagementRepo.ListSavedArticles(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"saved_articles": articles})
}

// DeleteSavedArticle handles DELETE /api/saved-articles/:id. Owner only.
func (s *Server) DeleteSavedArticle(c *fiber.Ctx) error {
	articleID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.engagementRepo.DeleteSavedArticle(c.Context(), currentUserID(c), articleID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Saved article removed"})
}

// Subscribe handles POST /api/subscribe. Works for anonymous visitors;
// a logged-in caller's account is linked to the subscription.
func (s *Server) Subscribe(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	var userID *uint
	if id, ok := s.optionalUserID(c); ok {
		userID = &id
	}
	if err := s.engagementRepo.Subscribe(c.Context(), req.Email, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Subscribed"})
}

// GetSubscribers handles GET /api/admin/subscribers.
func (s *Server) GetSubscribers(c *fiber.Ctx) error {
	subscribers, err := s.engagementRepo.ListSubscribers(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"subscribers": subscribers})
}
