package server

import (
	"sabuzz/internal/models"
	"sabuzz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		DisplayName  string `json:"display_name"`
		ProfileImage string `json:"profile_image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       currentUserID(c),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DisplayName:  req.DisplayName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// ApplyJournalist handles POST /api/journalist-requests.
func (s *Server) ApplyJournalist(c *fiber.Ctx) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.userService.ApplyJournalist(c.Context(), currentUserID(c), req.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetMyNotifications handles GET /api/users/me/notifications, newest first.
func (s *Server) GetMyNotifications(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)
	userID := currentUserID(c)

	notifications, err := s.notificationRepo.ListByUser(c.Context(), userID, pagination.Offset, pagination.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	unread, err := s.notificationRepo.CountUnread(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkNotificationRead handles POST /api/users/me/notifications/:id/read.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationRepo.MarkRead(c.Context(), currentUserID(c), notificationID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked read"})
}

// MarkAllNotificationsRead handles POST /api/users/me/notifications/read-all.
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := s.notificationRepo.MarkAllRead(c.Context(), currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked read"})
}

// GetAllUsers handles GET /api/admin/users.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)
	users, err := s.userService.ListUsers(c.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// PromoteToSuperuser handles POST /api/admin/users/:id/promote.
func (s *Server) PromoteToSuperuser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetSuperuser(c.Context(), userID, true)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DemoteFromSuperuser handles POST /api/admin/users/:id/demote.
func (s *Server) DemoteFromSuperuser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if userID == currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot demote yourself"))
	}

	user, err := s.userService.SetSuperuser(c.Context(), userID, false)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
