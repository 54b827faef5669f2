package service

import (
	"context"
	"strings"

	"sabuzz/internal/authz"
	"sabuzz/internal/models"
	"sabuzz/internal/repository"
)

// PostService implements the authoring workflow. Posts are written by
// journalists, start life as drafts or pending submissions, and only
// become published through moderation.
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	roleFor      func(ctx context.Context, userID uint) (authz.Role, error)
}

type CreatePostInput struct {
	UserID     uint
	Title      string
	Content    string
	Image      string
	CategoryID *uint
	// SaveAsDraft keeps the post out of the moderation queue until the
	// author submits it.
	SaveAsDraft bool
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Title      string
	Content    string
	Image      string
	CategoryID *uint
}

type ListPostsInput struct {
	Limit    int
	Offset   int
	Category *uint
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	roleFor func(ctx context.Context, userID uint) (authz.Role, error),
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		roleFor:      roleFor,
	}
}

const maxTitleLen = 300

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	role, err := s.roleFor(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !role.IsJournalist() {
		return nil, models.NewForbiddenError("Only journalists can author posts")
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	status := models.PostStatusPending
	if in.SaveAsDraft {
		status = models.PostStatusDraft
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		Image:      in.Image,
		Status:     status,
		UserID:     in.UserID,
		CategoryID: in.CategoryID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost loads a post subject to the viewer's visibility. A post the
// viewer may not see is reported as missing, not forbidden, so its
// existence does not leak.
func (s *PostService) GetPost(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
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
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (s *PostService) ListPublished(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.Category != nil {
		return s.postRepo.ListPublishedByCategory(ctx, *in.Category, in.Limit, in.Offset)
	}
	return s.postRepo.ListPublished(ctx, in.Limit, in.Offset)
}

// ListMine returns the author's own posts in every status.
func (s *PostService) ListMine(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset)
}

// SubmitPost moves an author's draft into the moderation queue.
// Submitting a post that is already pending is a no-op.
func (s *PostService) SubmitPost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("You can only submit your own posts")
	}

	changed, err := s.postRepo.TransitionStatus(ctx, postID, models.PostStatusDraft, models.PostStatusPending)
	if err != nil {
		return nil, err
	}
	if !changed && post.Status == models.PostStatusPublished {
		return nil, models.NewValidationError("Published posts cannot be resubmitted")
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	role, err := s.roleFor(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditPost(role, in.UserID, post) {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.Image != "" {
		post.Image = in.Image
	}
	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = in.CategoryID
	}

	// Editing never changes moderation status.
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	role, err := s.roleFor(ctx, userID)
	if err != nil {
		return err
	}
	if !authz.CanDeletePost(role, userID, post) {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
