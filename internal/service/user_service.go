package service

import (
	"adultna_backend/internal/model"
	"adultna_backend/internal/repository"
	"adultna_backend/internal/util"
	"context"
	"fmt"
	"io"
)

type UserService struct {
	Users   *repository.UserRepository
	Storage *StorageService
}

func NewUserService(users *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{Users: users, Storage: storage}
}

type ProfileUpdateRequest struct {
	Name      string `json:"name"`
	Headline  string `json:"headline"`
	Onboarded *bool  `json:"onboarded"`
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Headline = req.Headline
	if req.Onboarded != nil {
		user.Onboarded = *req.Onboarded
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, reader io.Reader, size int64, contentType string) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	objectName := fmt.Sprintf("avatars/%d", userID)
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	user.Avatar = url
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(page, limit int, name string) ([]model.User, int64, error) {
	return s.Users.List(page, limit, name)
}

func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	if _, err := s.Users.FindByID(userID); err != nil {
		return util.ErrUserNotFound
	}
	return s.Users.SetDisabled(userID, disabled)
}
