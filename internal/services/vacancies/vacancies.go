// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package vacancies manages job offers posted on the portal.
package vacancies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"codeberg.org/oliverandrich/alumni-api/internal/repository"
	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
)

var (
	ErrNotFound     = errors.New("Vacancy not found")
	ErrLogoRequired = errors.New("Logo required")
)

type Service struct {
	repo   *repository.Repository
	images *images.Service
	now    func() time.Time
}

func NewService(repo *repository.Repository, imgs *images.Service) *Service {
	return &Service{repo: repo, images: imgs, now: time.Now}
}

func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

type CreateParams struct {
	CompanyName  string
	Salary       string
	Requirements string
	Position     string
	Contacts     []models.Contact
	Logo         *images.Upload
}

// UpdateParams holds changes to a vacancy. Nil fields are unchanged.
type UpdateParams struct {
	CompanyName  *string
	Salary       *string
	Requirements *string
	Position     *string
	Contacts     []models.Contact
	Logo         *images.Upload
	Editor       string
}

// View projects v with the public logo URL.
func (s *Service) View(v *models.Vacancy) models.VacancyView {
	contacts := []models.Contact(v.Contacts)
	if contacts == nil {
		contacts = []models.Contact{}
	}
	return models.VacancyView{
		ID:           v.ID,
		CompanyName:  v.CompanyName,
		CompanyLogo:  s.images.URL(images.CompanyLogos, v.CompanyLogo),
		Salary:       v.Salary,
		Requirements: v.Requirements,
		Position:     v.Position,
		Contacts:     contacts,
		CreatedAt:    v.CreatedAt,
		LastUpdate:   v.LastUpdate,
		UpdatedBy:    v.UpdatedBy,
	}
}

func (s *Service) List(ctx context.Context, page models.PageRequest) (models.Page[models.VacancyView], error) {
	page = page.Normalize()
	items, total, err := s.repo.ListVacancies(ctx, page)
	if err != nil {
		return models.Page[models.VacancyView]{}, fmt.Errorf("failed to list vacancies: %w", err)
	}
	return models.MapPage(models.NewPage(items, total, page), func(v models.Vacancy) models.VacancyView {
		return s.View(&v)
	}), nil
}

func (s *Service) Get(ctx context.Context, id string) (models.VacancyView, error) {
	v, err := s.find(ctx, id)
	if err != nil {
		return models.VacancyView{}, err
	}
	return s.View(v), nil
}

// Create stores the logo and the vacancy.
func (s *Service) Create(ctx context.Context, p CreateParams) (models.VacancyView, error) {
	if p.Logo == nil {
		return models.VacancyView{}, ErrLogoRequired
	}

	logo, err := s.images.SaveUpload(ctx, images.CompanyLogos, *p.Logo)
	if err != nil {
		return models.VacancyView{}, err
	}

	v := &models.Vacancy{
		CompanyName:  p.CompanyName,
		CompanyLogo:  logo,
		Salary:       p.Salary,
		Requirements: p.Requirements,
		Position:     p.Position,
		Contacts:     p.Contacts,
	}
	if err := s.repo.CreateVacancy(ctx, v); err != nil {
		_ = s.images.Remove(ctx, images.CompanyLogos, logo)
		return models.VacancyView{}, fmt.Errorf("failed to create vacancy: %w", err)
	}

	slog.Info("vacancy_created", "vacancy_id", v.ID)
	return s.View(v), nil
}

// Update applies p and stamps the editor. A replaced logo is deleted.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (models.VacancyView, error) {
	v, err := s.find(ctx, id)
	if err != nil {
		return models.VacancyView{}, err
	}

	if p.CompanyName != nil {
		v.CompanyName = *p.CompanyName
	}
	if p.Salary != nil {
		v.Salary = *p.Salary
	}
	if p.Requirements != nil {
		v.Requirements = *p.Requirements
	}
	if p.Position != nil {
		v.Position = *p.Position
	}
	if p.Contacts != nil {
		v.Contacts = p.Contacts
	}

	var stale, fresh string
	if p.Logo != nil {
		name, err := s.images.SaveUpload(ctx, images.CompanyLogos, *p.Logo)
		if err != nil {
			return models.VacancyView{}, err
		}
		stale, fresh, v.CompanyLogo = v.CompanyLogo, name, name
	}

	now := s.now().UTC()
	v.LastUpdate = &now
	v.UpdatedBy = p.Editor

	if err := s.repo.UpdateVacancy(ctx, v); err != nil {
		if fresh != "" {
			_ = s.images.Remove(ctx, images.CompanyLogos, fresh)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return models.VacancyView{}, ErrNotFound
		}
		return models.VacancyView{}, fmt.Errorf("failed to update vacancy: %w", err)
	}

	if stale != "" {
		if err := s.images.Remove(ctx, images.CompanyLogos, stale); err != nil {
			slog.Warn("image_cleanup_failed", "vacancy_id", v.ID, "error", err)
		}
	}

	slog.Info("vacancy_updated", "vacancy_id", v.ID, "editor", p.Editor)
	return s.View(v), nil
}

// Delete removes a vacancy and its logo.
func (s *Service) Delete(ctx context.Context, id string) error {
	v, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteVacancy(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete vacancy: %w", err)
	}

	if err := s.images.Remove(ctx, images.CompanyLogos, v.CompanyLogo); err != nil {
		slog.Warn("image_cleanup_failed", "vacancy_id", id, "error", err)
	}

	slog.Info("vacancy_deleted", "vacancy_id", id)
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*models.Vacancy, error) {
	v, err := s.repo.GetVacancy(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vacancy: %w", err)
	}
	return v, nil
}
