package server

import (
	"log/slog"

	"sabuzz/internal/models"
	"sabuzz/internal/news"

	"github.com/gofiber/fiber/v2"
)

// GetNews handles GET /api/news. Upstream failures degrade to an empty
// article list rather than an error page.
func (s *Server) GetNews(c *fiber.Ctx) error {
	articles, err := s.newsClient.Headlines(c.Context())
	if err != nil {
		slog.WarnContext(c.UserContext(), "news fetch failed", "err", err)
		articles = []news.Article{}
	}
	return c.JSON(fiber.Map{"articles": articles})
}

// GetNewsByCategory handles GET /api/news/category/:category.
func (s *Server) GetNewsByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category is required"))
	}

	articles, err := s.newsClient.Category(c.Context(), category)
	if err != nil {
		slog.WarnContext(c.UserContext(), "news fetch failed", "category", category, "err", err)
		articles = []news.Article{}
	}
	return c.JSON(fiber.Map{"articles": articles})
}

// SearchNews handles GET /api/news/search?q=.
func (s *Server) SearchNews(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	articles, err := s.newsClient.Search(c.Context(), query)
	if err != nil {
		slog.WarnContext(c.UserContext(), "news search failed", "query", query, "err", err)
		articles = []news.Article{}
	}
	return c.JSON(fiber.Map{"articles": articles})
}

// GetWeather handles GET /api/weather for the configured location.
func (s *Server) GetWeather(c *fiber.Ctx) error {
	weather, err := s.weatherClient.Current(c.Context())
	if err != nil {
		slog.WarnContext(c.UserContext(), "weather fetch failed", "err", err)
		return c.JSON(fiber.Map{"weather": nil})
	}
	return c.JSON(fiber.Map{"weather": weather})
}
