package service

import (
	"context"
	"strings"

	"sabuzz/internal/models"
	"sabuzz/internal/repository"
)

// UserService covers profile management and journalist applications.
type UserService struct {
	userRepo       repository.UserRepository
	journalistRepo repository.JournalistRepository
}

type UpdateProfileInput struct {
	UserID       uint
	FirstName    string
	LastName     string
	DisplayName  string
	ProfileImage string
}

func NewUserService(
	userRepo repository.UserRepository,
	journalistRepo repository.JournalistRepository,
) *UserService {
	return &UserService{userRepo: userRepo, journalistRepo: journalistRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxNameLen = 150

	if in.FirstName != "" {
		if len(in.FirstName) > maxNameLen {
			return nil, models.NewValidationError("First name too long")
		}
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		if len(in.LastName) > maxNameLen {
			return nil, models.NewValidationError("Last name too long")
		}
		user.LastName = in.LastName
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if user.Profile != nil && (in.DisplayName != "" || in.ProfileImage != "") {
		if in.DisplayName != "" {
			if len(in.DisplayName) > maxNameLen {
				return nil, models.NewValidationError("Display name too long")
			}
			user.Profile.DisplayName = in.DisplayName
		}
		if in.ProfileImage != "" {
			user.Profile.ProfileImage = in.ProfileImage
		}
		if err := s.userRepo.UpdateProfile(ctx, user.Profile); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(ctx, in.UserID)
}

// SetSuperuser grants or revokes site-wide moderation rights.
func (s *UserService) SetSuperuser(ctx context.Context, targetID uint, superuser bool) (*models.User, error) {
	if err := s.userRepo.SetSuperuser(ctx, targetID, superuser); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}

// ApplyJournalist files a journalist application for an existing account.
// An account can hold at most one pending application at a time.
func (s *UserService) ApplyJournalist(ctx context.Context, userID uint, reason string) (*models.JournalistRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, models.NewValidationError("Reason is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsSuperuser || user.InGroup(models.JournalistsGroup) {
		return nil, models.NewValidationError("Account already has journalist access")
	}

	pending, err := s.journalistRepo.GetPendingByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, models.NewValidationError("You already have a pending journalist request")
	}

	req := &models.JournalistRequest{
		UserID: userID,
		Reason: reason,
		Status: models.RequestStatusPending,
	}
	if err := s.journalistRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
