package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetDashboardStats handles GET /api/admin/dashboard.
func (s *Server) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.Stats(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetPendingPosts handles GET /api/admin/posts/pending.
func (s *Server) GetPendingPosts(c *fiber.Ctx) error {
	pagination := parsePagination(c, 20)
	posts, err := s.moderationService.ListPendingPosts(c.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// ApprovePost handles POST /api/admin/posts/:id/approve. Safe to repeat.
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.ApprovePost(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// RejectPost handles POST /api/admin/posts/:id/reject. The post returns to
// the author's drafts. Safe to repeat.
func (s *Server) RejectPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.moderationService.RejectPost(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetAllComments handles GET /api/admin/comments, the moderation queue view.
func (s *Server) GetAllComments(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)
	comments, err := s.moderationService.ListComments(c.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// ApproveComment handles POST /api/admin/comments/:id/approve.
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.moderationService.ApproveComment(c.Context(), commentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// AdminDeleteComment handles DELETE /api/admin/comments/:id.
func (s *Server) AdminDeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeleteComment(c.Context(), commentID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// GetJournalistRequests handles GET /api/admin/journalist-requests.
// An optional ?status= filters by pending/approved/rejected.
func (s *Server) GetJournalistRequests(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)
	status := c.Query("status")

	requests, err := s.moderationService.ListJournalistRequests(c.Context(), status, pagination.Limit, pagination.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// ApproveJournalistRequest handles POST /api/admin/journalist-requests/:id/approve.
func (s *Server) ApproveJournalistRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	request, err := s.moderationService.ApproveJournalistRequest(c.Context(), requestID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(request)
}

// RejectJournalistRequest handles POST /api/admin/journalist-requests/:id/reject.
func (s *Server) RejectJournalistRequest(c *fiber.Ctx) error {
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	request, err := s.moderationService.RejectJournalistRequest(c.Context(), requestID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(request)
}
