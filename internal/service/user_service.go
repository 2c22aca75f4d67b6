package service

import (
	"context"

	"wayfare/internal/models"
	"wayfare/internal/repository"
	"wayfare/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput is a patch: empty fields are retained as-is.
type UpdateProfileInput struct {
	UserID   uint
	Nickname string
	Avatar   string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Nickname != "" {
		if err := validation.ValidateNickname(in.Nickname); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Nickname = in.Nickname
		updates["nickname"] = in.Nickname
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
		updates["avatar"] = in.Avatar
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.userRepo.UpdateProfile(ctx, in.UserID, updates); err != nil {
		return nil, err
	}

	return user, nil
}
