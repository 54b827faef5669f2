package repository

import (
	"context"
	"errors"

	"sabuzz/internal/cache"
	"sabuzz/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository covers likes, saved posts, favorites, saved external
// articles and newsletter subscriptions. All the get-or-create paths rely on
// unique constraints rather than application-level locking.
type EngagementRepository interface {
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)

	SavePost(ctx context.Context, userID, postID uint) error
	UnsavePost(ctx context.Context, userID, postID uint) error
	ListSavedPosts(ctx context.Context, userID uint) ([]*models.SavedPost, error)
	CountSavedPosts(ctx context.Context, userID, postID uint) (int64, error)

	CreateFavorite(ctx context.Context, fav *models.Favorite) error
	ListFavorites(ctx context.Context, userID uint) ([]*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, id uint) error

	CreateSavedArticle(ctx context.Context, art *models.SavedArticle) error
	ListSavedArticles(ctx context.Context, userID uint) ([]*models.SavedArticle, error)
	DeleteSavedArticle(ctx context.Context, userID, id uint) error

	Subscribe(ctx context.Context, email string, userID *uint) error
	ListSubscribers(ctx context.Context) ([]*models.Subscriber, error)
	CountSubscribers(ctx context.Context) (int64, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Like(ctx context.Context, userID, postID uint) error {
	like := models.Like{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *engagementRepository) Unlike(ctx context.Context, userID, postID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *engagementRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *engagementRepository) SavePost(ctx context.Context, userID, postID uint) error {
	saved := models.SavedPost{UserID: userID, PostID: postID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&saved).Error
}

func (r *engagementRepository) UnsavePost(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{}).Error
}

func (r *engagementRepository) ListSavedPosts(ctx context.Context, userID uint) ([]*models.SavedPost, error) {
	var saved []*models.SavedPost
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Post.User").
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&saved).Error
	return saved, err
}

func (r *engagementRepository) CountSavedPosts(ctx context.Context, userID, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SavedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count, err
}

func (r *engagementRepository) CreateFavorite(ctx context.Context, fav *models.Favorite) error {
	return r.db.WithContext(ctx).Create(fav).Error
}

func (r *engagementRepository) ListFavorites(ctx context.Context, userID uint) ([]*models.Favorite, error) {
	var favs []*models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&favs).Error
	return favs, err
}

func (r *engagementRepository) DeleteFavorite(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Favorite", id)
	}
	return nil
}

func (r *engagementRepository) CreateSavedArticle(ctx context.Context, art *models.SavedArticle) error {
	return r.db.WithContext(ctx).Create(art).Error
}

func (r *engagementRepository) ListSavedArticles(ctx context.Context, userID uint) ([]*models.SavedArticle, error) {
	var arts []*models.SavedArticle
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&arts).Error
	return arts, err
}

func (r *engagementRepository) DeleteSavedArticle(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SavedArticle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("SavedArticle", id)
	}
	return nil
}

// Subscribe records the email once; re-subscribing the same address is a
// benign no-op.
func (r *engagementRepository) Subscribe(ctx context.Context, email string, userID *uint) error {
	sub := models.Subscriber{Email: email, UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sub).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

func (r *engagementRepository) ListSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	var subs []*models.Subscriber
	err := r.db.WithContext(ctx).Order("subscribed_at DESC").Find(&subs).Error
	return subs, err
}

func (r *engagementRepository) CountSubscribers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscriber{}).Count(&count).Error
	return count, err
}
