package service

import (
	"context"

	"sabuzz/internal/models"
	"sabuzz/internal/notifications"
	"sabuzz/internal/observability"
	"sabuzz/internal/repository"
)

// ModerationService implements the superuser review queues: pending posts,
// unapproved comments and journalist applications. Every decision endpoint
// is idempotent; repeating a decision that already took effect is a no-op.
type ModerationService struct {
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	userRepo       repository.UserRepository
	journalistRepo repository.JournalistRepository
	engagementRepo repository.EngagementRepository
	categoryRepo   repository.CategoryRepository
	notifier       *notifications.Notifier
}

// DashboardStats aggregates the counts shown on the admin dashboard.
type DashboardStats struct {
	TotalPosts       int64 `json:"total_posts"`
	PendingPosts     int64 `json:"pending_posts"`
	TotalComments    int64 `json:"total_comments"`
	PendingRequests  int64 `json:"pending_requests"`
	TotalCategories  int64 `json:"total_categories"`
	TotalSubscribers int64 `json:"total_subscribers"`
}

func NewModerationService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	journalistRepo repository.JournalistRepository,
	engagementRepo repository.EngagementRepository,
	categoryRepo repository.CategoryRepository,
	notifier *notifications.Notifier,
) *ModerationService {
	return &ModerationService{
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		userRepo:       userRepo,
		journalistRepo: journalistRepo,
		engagementRepo: engagementRepo,
		categoryRepo:   categoryRepo,
		notifier:       notifier,
	}
}

func (s *ModerationService) ListPendingPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListByStatus(ctx, models.PostStatusPending, limit, offset)
}

// ApprovePost publishes a pending post. Approving a post that is not
// pending changes nothing and reports the current state back.
func (s *ModerationService) ApprovePost(ctx context.Context, postID uint) (*models.Post, error) {
	changed, err := s.postRepo.TransitionStatus(ctx, postID, models.PostStatusPending, models.PostStatusPublished)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if changed {
		observability.RecordModeration("post", "approve")
		if s.notifier != nil {
			_ = s.notifier.Notify(ctx, &models.Notification{
				UserID:       post.UserID,
				Verb:         notifications.VerbPostApproved,
				TargetPostID: &post.ID,
			})
		}
	}
	return post, nil
}

// RejectPost sends a pending post back to the author's drafts.
func (s *ModerationService) RejectPost(ctx context.Context, postID uint) (*models.Post, error) {
	changed, err := s.postRepo.TransitionStatus(ctx, postID, models.PostStatusPending, models.PostStatusDraft)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if changed {
		observability.RecordModeration("post", "reject")
		if s.notifier != nil {
			_ = s.notifier.Notify(ctx, &models.Notification{
				UserID:       post.UserID,
				Verb:         notifications.VerbPostRejected,
				TargetPostID: &post.ID,
			})
		}
	}
	return post, nil
}

// ListComments returns the full comment stream for the moderation queue,
// including comments readers cannot see yet.
func (s *ModerationService) ListComments(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
	return s.commentRepo.ListAll(ctx, limit, offset)
}

func (s *ModerationService) ApproveComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	if err := s.commentRepo.Approve(ctx, commentID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	observability.RecordModeration("comment", "approve")
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, &models.Notification{
			UserID:          comment.UserID,
			Verb:            notifications.VerbCommentApproved,
			TargetPostID:    &comment.PostID,
			TargetCommentID: &comment.ID,
		})
	}
	return comment, nil
}

// DeleteComment removes a comment regardless of author. Superuser only;
// the handler enforces the role.
func (s *ModerationService) DeleteComment(ctx context.Context, commentID uint) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	observability.RecordModeration("comment", "delete")
	return nil
}

func (s *ModerationService) ListJournalistRequests(ctx context.Context, status string, limit, offset int) ([]*models.JournalistRequest, error) {
	return s.journalistRepo.ListByStatus(ctx, status, offset, limit)
}

// ApproveJournalistRequest grants journalist access: the request is marked
// approved, the account joins the Journalists group and its profile role
// becomes "journalist". Re-approving an already decided request is a no-op.
func (s *ModerationService) ApproveJournalistRequest(ctx context.Context, requestID uint) (*models.JournalistRequest, error) {
	req, err := s.journalistRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	changed, err := s.journalistRepo.TransitionStatus(ctx, requestID, models.RequestStatusPending, models.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.journalistRepo.GetByID(ctx, requestID)
	}

	if err := s.userRepo.AddToGroup(ctx, req.UserID, models.JournalistsGroup); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.Profile != nil {
		user.Profile.Role = models.RoleJournalist
		if user.Profile.DisplayName == "" {
			user.Profile.DisplayName = user.FullName()
		}
		if err := s.userRepo.UpdateProfile(ctx, user.Profile); err != nil {
			return nil, err
		}
	}

	observability.RecordModeration("journalist_request", "approve")
	if s.notifier != nil {
		_ = s.notifier.Notify(ctx, &models.Notification{
			UserID: req.UserID,
			Verb:   notifications.VerbJournalistApproved,
		})
	}
	return s.journalistRepo.GetByID(ctx, requestID)
}

// RejectJournalistRequest closes the application without granting access,
// which also unlocks the account's login.
func (s *ModerationService) RejectJournalistRequest(ctx context.Context, requestID uint) (*models.JournalistRequest, error) {
	req, err := s.journalistRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	changed, err := s.journalistRepo.TransitionStatus(ctx, requestID, models.RequestStatusPending, models.RequestStatusRejected)
	if err != nil {
		return nil, err
	}
	if changed {
		observability.RecordModeration("journalist_request", "reject")
		if s.notifier != nil {
			_ = s.notifier.Notify(ctx, &models.Notification{
				UserID: req.UserID,
				Verb:   notifications.VerbJournalistRejected,
			})
		}
	}
	return s.journalistRepo.GetByID(ctx, requestID)
}

// Stats aggregates counts for the admin dashboard.
func (s *ModerationService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalPosts, err = s.postRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingPosts, err = s.postRepo.CountByStatus(ctx, models.PostStatusPending); err != nil {
		return nil, err
	}
	if stats.TotalComments, err = s.commentRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = s.journalistRepo.Count(ctx, models.RequestStatusPending); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.categoryRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSubscribers, err = s.engagementRepo.CountSubscribers(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
