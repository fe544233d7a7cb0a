package usecase

import (
	"context"
	"fmt"
	"time"

	"unimarket/internal/domain/entity"
	"unimarket/internal/domain/repository"
	"unimarket/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	uploader MediaUploader
}

func NewUserUseCase(userRepo repository.UserRepository, uploader MediaUploader) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Bio      string `json:"bio" validate:"omitempty,max=500"`
	Campus   string `json:"campus" validate:"omitempty,max=100"`
}

// UpdateProfile upserts the caller's profile row. The row may not exist yet
// for users who signed up but never edited their profile.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID, email string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return nil, err
		}
		user = &entity.User{
			ID:        userID,
			Email:     email,
			CreatedAt: time.Now(),
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	user.FullName = input.FullName
	user.Bio = input.Bio
	user.Campus = input.Campus
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UploadAvatar stores the avatar and records its URL on the profile.
func (uc *UserUseCase) UploadAvatar(ctx context.Context, userID string, upload MediaUpload) (*entity.User, error) {
	if err := validateImageUpload(upload, listingImageTypes, maxListingImageSize); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := uc.uploader.UploadFile(ctx, upload.Reader, upload.ContentType, fmt.Sprintf("avatars/%s", userID))
	if err != nil {
		return nil, errors.Internal("Failed to upload avatar", err)
	}

	user.AvatarURL = url
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
