// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package news manages news articles and their images.
package news

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

// MaxImages is the most images an article may carry besides its poster.
const MaxImages = 6

var (
	ErrNotFound       = errors.New("News not found")
	ErrPosterRequired = errors.New("Poster required")
	ErrTooManyImages  = fmt.Errorf("Maximum %d news images", MaxImages)
)

type Service struct {
	repo   *repository.Repository
	images *images.Service
	now    func() time.Time
}

func NewService(repo *repository.Repository, imgs *images.Service) *Service {
	return &Service{repo: repo, images: imgs, now: time.Now}
}

// SetClock replaces the clock used for lastUpdate stamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateParams holds a new article.
type CreateParams struct {
	Title         string
	ShortDescribe string
	Content       []models.ContentBlock
	Poster        *images.Upload
	Images        []images.Upload
}

// UpdateParams holds changes to an article. Nil fields are unchanged; a
// non-empty Images list replaces all images.
type UpdateParams struct {
	Title         *string
	ShortDescribe *string
	Content       []models.ContentBlock
	Poster        *images.Upload
	Images        []images.Upload
	Editor        string
}

// View projects n with public image URLs.
func (s *Service) View(n *models.News) models.NewsView {
	return models.NewsView{
		ID:            n.ID,
		Title:         n.Title,
		Poster:        s.images.URL(images.Posters, n.Poster),
		ShortDescribe: n.ShortDescribe,
		Content:       nonNil(n.Content),
		NewsImages:    s.images.URLs(images.NewsImages, n.NewsImages),
		CreatedAt:     n.CreatedAt,
		LastUpdate:    n.LastUpdate,
		UpdatedBy:     n.UpdatedBy,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// List returns a page of articles, newest first.
func (s *Service) List(ctx context.Context, page models.PageRequest) (models.Page[models.NewsView], error) {
	page = page.Normalize()
	items, total, err := s.repo.ListNews(ctx, page)
	if err != nil {
		return models.Page[models.NewsView]{}, fmt.Errorf("failed to list news: %w", err)
	}
	return models.MapPage(models.NewPage(items, total, page), func(n models.News) models.NewsView {
		return s.View(&n)
	}), nil
}

// Get returns one article.
func (s *Service) Get(ctx context.Context, id string) (models.NewsView, error) {
	n, err := s.find(ctx, id)
	if err != nil {
		return models.NewsView{}, err
	}
	return s.View(n), nil
}

// Create stores the uploads and the article.
func (s *Service) Create(ctx context.Context, p CreateParams) (models.NewsView, error) {
	if p.Poster == nil {
		return models.NewsView{}, ErrPosterRequired
	}
	if len(p.Images) > MaxImages {
		return models.NewsView{}, ErrTooManyImages
	}

	poster, err := s.images.SaveUpload(ctx, images.Posters, *p.Poster)
	if err != nil {
		return models.NewsView{}, err
	}
	names, err := s.images.SaveUploads(ctx, images.NewsImages, p.Images)
	if err != nil {
		_ = s.images.Remove(ctx, images.Posters, poster)
		return models.NewsView{}, err
	}

	n := &models.News{
		Title:         p.Title,
		Poster:        poster,
		ShortDescribe: p.ShortDescribe,
		Content:       p.Content,
		NewsImages:    names,
	}
	if err := s.repo.CreateNews(ctx, n); err != nil {
		s.discard(ctx, poster, names)
		return models.NewsView{}, fmt.Errorf("failed to create news: %w", err)
	}

	slog.Info("news_created", "news_id", n.ID)
	return s.View(n), nil
}

// Update applies p and stamps the editor. Replaced images are deleted.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (models.NewsView, error) {
	if len(p.Images) > MaxImages {
		return models.NewsView{}, ErrTooManyImages
	}

	n, err := s.find(ctx, id)
	if err != nil {
		return models.NewsView{}, err
	}

	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.ShortDescribe != nil {
		n.ShortDescribe = *p.ShortDescribe
	}
	if p.Content != nil {
		n.Content = p.Content
	}

	var stale, fresh struct {
		poster string
		images []string
	}
	if p.Poster != nil {
		name, err := s.images.SaveUpload(ctx, images.Posters, *p.Poster)
		if err != nil {
			return models.NewsView{}, err
		}
		stale.poster, fresh.poster, n.Poster = n.Poster, name, name
	}
	if len(p.Images) > 0 {
		names, err := s.images.SaveUploads(ctx, images.NewsImages, p.Images)
		if err != nil {
			s.discard(ctx, fresh.poster, nil)
			return models.NewsView{}, err
		}
		stale.images, fresh.images, n.NewsImages = n.NewsImages, names, names
	}

	now := s.now().UTC()
	n.LastUpdate = &now
	n.UpdatedBy = p.Editor

	if err := s.repo.UpdateNews(ctx, n); err != nil {
		s.discard(ctx, fresh.poster, fresh.images)
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewsView{}, ErrNotFound
		}
		return models.NewsView{}, fmt.Errorf("failed to update news: %w", err)
	}

	if stale.poster != "" {
		s.cleanup(ctx, n.ID, images.Posters, []string{stale.poster})
	}
	s.cleanup(ctx, n.ID, images.NewsImages, stale.images)

	slog.Info("news_updated", "news_id", n.ID, "editor", p.Editor)
	return s.View(n), nil
}

// Delete removes an article and its images.
func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteNews(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete news: %w", err)
	}

	s.cleanup(ctx, id, images.Posters, []string{n.Poster})
	s.cleanup(ctx, id, images.NewsImages, n.NewsImages)

	slog.Info("news_deleted", "news_id", id)
	return nil
}

func (s *Service) cleanup(ctx context.Context, id string, folder images.Folder, names []string) {
	if err := s.images.RemoveAll(ctx, folder, names); err != nil {
		slog.Warn("image_cleanup_failed", "news_id", id, "folder", folder, "error", err)
	}
}

// discard removes uploads stored for a write that did not go through.
func (s *Service) discard(ctx context.Context, poster string, names []string) {
	if poster != "" {
		_ = s.images.Remove(ctx, images.Posters, poster)
	}
	_ = s.images.RemoveAll(ctx, images.NewsImages, names)
}

func (s *Service) find(ctx context.Context, id string) (*models.News, error) {
	n, err := s.repo.GetNews(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get news: %w", err)
	}
	return n, nil
}
