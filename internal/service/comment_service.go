package service

import (
	"context"
	"strings"

	"sabuzz/internal/authz"
	"sabuzz/internal/models"
	"sabuzz/internal/notifications"
	"sabuzz/internal/repository"
)

// CommentService implements commenting with pre-moderation: every comment
// starts unapproved and is invisible to other readers until a superuser
// approves it.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifier    *notifications.Notifier
	roleFor     func(ctx context.Context, userID uint) (authz.Role, error)
}

type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Text      string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notifier *notifications.Notifier,
	roleFor func(ctx context.Context, userID uint) (authz.Role, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifier:    notifier,
		roleFor:     roleFor,
	}
}

const maxCommentLen = 10000

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(in.Text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleFor(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewPost(role, in.UserID, post) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	comment := &models.Comment{
		Text:   in.Text,
		UserID: in.UserID,
		PostID: in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.notifier != nil && post.UserID != in.UserID {
		_ = s.notifier.Notify(ctx, &models.Notification{
			UserID:       post.UserID,
			Verb:         notifications.VerbNewComment,
			TargetPostID: &post.ID,
		})
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the comments on a post the viewer can see: approved
// only for general viewers, everything for moderators.
func (s *CommentService) ListComments(ctx context.Context, postID, viewerID uint) ([]*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	role := authz.Anonymous
	if viewerID != 0 {
		role, err = s.roleFor(ctx, viewerID)
		if err != nil {
			return nil, err
		}
	}
	if !authz.CanViewPost(role, viewerID, post) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.commentRepo.ListByPost(ctx, postID, role.CanModerate())
}

// UpdateComment lets the author edit their own comment. Editing pulls the
// comment back out of the approved pool until a moderator looks at it again.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditComment(in.UserID, comment) {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Text = in.Text
	comment.Approved = false
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, in.CommentID)
}

func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	role, err := s.roleFor(ctx, userID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteComment(role, userID, comment) {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}
