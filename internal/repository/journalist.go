package repository

import (
	"context"
	"errors"

	"sabuzz/internal/models"

	"gorm.io/gorm"
)

// JournalistRepository manages journalist promotion requests.
type JournalistRepository interface {
	Create(ctx context.Context, req *models.JournalistRequest) error
	GetByID(ctx context.Context, id uint) (*models.JournalistRequest, error)
	GetPendingByUserID(ctx context.Context, userID uint) (*models.JournalistRequest, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.JournalistRequest, error)
	TransitionStatus(ctx context.Context, id uint, from, to string) (bool, error)
	Count(ctx context.Context, status string) (int64, error)
}

type journalistRepository struct {
	db *gorm.DB
}

// NewJournalistRepository creates a new JournalistRepository
func NewJournalistRepository(db *gorm.DB) JournalistRepository {
	return &journalistRepository{db: db}
}

func (r *journalistRepository) Create(ctx context.Context, req *models.JournalistRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *journalistRepository) GetByID(ctx context.Context, id uint) (*models.JournalistRequest, error) {
	var req models.JournalistRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Profile").
		First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("JournalistRequest", id)
		}
		return nil, err
	}
	return &req, nil
}

// GetPendingByUserID returns nil, nil when the user has no pending request.
func (r *journalistRepository) GetPendingByUserID(ctx context.Context, userID uint) (*models.JournalistRequest, error) {
	var req models.JournalistRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.RequestStatusPending).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *journalistRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.JournalistRequest, error) {
	var reqs []*models.JournalistRequest
	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Profile").
		Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Offset(offset).Limit(limit).Find(&reqs).Error
	return reqs, err
}

// TransitionStatus moves a request from one status to another with a filtered
// update. Returns false when the request was not in the expected status, which
// makes repeated decisions no-ops.
func (r *journalistRepository) TransitionStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.JournalistRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *journalistRepository) Count(ctx context.Context, status string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.JournalistRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}
