// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package users serves profile reads, profile updates and the alumni directory.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/services/auth"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
)

var (
	ErrInvalidEducation = errors.New("invalid education")
	ErrInvalidSpecialty = errors.New("invalid specialty")
)

type Service struct {
	repo   *repository.Repository
	images *images.Service
}

func NewService(repo *repository.Repository, imgs *images.Service) *Service {
	return &Service{repo: repo, images: imgs}
}

// UpdateProfileParams lists the writable profile fields. Nil leaves a field unchanged.
type UpdateProfileParams struct {
	Name              *string
	Surname           *string
	PhoneNumber       *string
	Education         *string
	Specialty         *string
	YearOfRelease     *int
	Place             *string
	WorkPlace         *string
	PositionAtWork    *string
	ShortBiography    *string
	EducationAndGoals *string
}

// ListParams selects a page of the directory.
type ListParams struct {
	Page   models.PageRequest
	Filter repository.UserFilter
}

func (s *Service) project(u *models.User) models.Profile {
	return u.Profile(s.images.AvatarURL)
}

// Get returns the profile of the user with id.
func (s *Service) Get(ctx context.Context, id string) (models.Profile, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	return s.project(user), nil
}

// Profile returns the profile of the authenticated user.
func (s *Service) Profile(ctx context.Context, userID string) (models.Profile, error) {
	return s.Get(ctx, userID)
}

// Update applies params to the user's profile. A non-nil avatar replaces the
// current one, which is then deleted.
func (s *Service) Update(ctx context.Context, userID string, params UpdateProfileParams, avatar *images.Upload) (models.Profile, error) {
	if params.Education != nil && !models.ValidEducation(*params.Education) {
		return models.Profile{}, ErrInvalidEducation
	}
	if params.Specialty != nil && !models.ValidSpecialty(*params.Specialty) {
		return models.Profile{}, ErrInvalidSpecialty
	}

	user, err := s.find(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}

	apply(user, params)

	var previous string
	if avatar != nil {
		name, err := s.images.SaveUpload(ctx, images.Avatars, *avatar)
		if err != nil {
			return models.Profile{}, err
		}
		if user.Avatar != nil {
			previous = *user.Avatar
		}
		user.Avatar = &name
	}

	if err := s.repo.SaveUser(ctx, user); err != nil {
		if avatar != nil {
			_ = s.images.Remove(ctx, images.Avatars, *user.Avatar)
		}
		return models.Profile{}, fmt.Errorf("failed to update user: %w", err)
	}

	if previous != "" {
		if err := s.images.Remove(ctx, images.Avatars, previous); err != nil {
			slog.Warn("avatar_cleanup_failed", "user_id", user.ID, "error", err)
		}
	}

	slog.Info("profile_updated", "user_id", user.ID)
	return s.project(user), nil
}

func apply(u *models.User, p UpdateProfileParams) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Surname != nil {
		u.Surname = *p.Surname
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.Education != nil {
		u.Education = p.Education
	}
	if p.Specialty != nil {
		u.Specialty = p.Specialty
	}
	if p.YearOfRelease != nil {
		u.YearOfRelease = p.YearOfRelease
	}
	if p.Place != nil {
		u.Place = p.Place
	}
	if p.WorkPlace != nil {
		u.WorkPlace = p.WorkPlace
	}
	if p.PositionAtWork != nil {
		u.PositionAtWork = p.PositionAtWork
	}
	if p.ShortBiography != nil {
		u.ShortBiography = p.ShortBiography
	}
	if p.EducationAndGoals != nil {
		u.EducationAndGoals = p.EducationAndGoals
	}
}

// List returns a page of non-admin users.
func (s *Service) List(ctx context.Context, params ListParams) (models.Page[models.Profile], error) {
	page := params.Page.Normalize()
	users, total, err := s.repo.ListUsers(ctx, params.Filter, page)
	if err != nil {
		return models.Page[models.Profile]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return models.MapPage(models.NewPage(users, total, page), func(u models.User) models.Profile {
		return s.project(&u)
	}), nil
}

func (s *Service) find(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
