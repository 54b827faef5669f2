package server

import (
	"io"

	"sabuzz/internal/models"
	"sabuzz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images. Accepts a multipart "image" field,
// re-encodes it and returns the stored cover URLs.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	stored, err := s.imageService.Upload(service.UploadImageInput{
		UserID:      currentUserID(c),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

// ServeImage handles GET /media/i/:hash/cover.:format.
func (s *Server) ServeImage(c *fiber.Ctx) error {
	hash := c.Params("hash")
	format := c.Params("format")

	path, err := s.imageService.ResolveForServing(hash, format)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set("Cache-Control", "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
