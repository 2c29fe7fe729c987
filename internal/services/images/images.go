// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package images stores uploaded pictures and builds their public URLs.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an image does not exist.
var ErrNotFound = errors.New("image not found")

// Folder groups images by purpose. Upload form fields carry the same names.
type Folder string

const (
	Avatars      Folder = "avatars"
	Posters      Folder = "posters"
	NewsImages   Folder = "newsImages"
	CompanyLogos Folder = "companyLogos"
)

// Folders lists every known folder.
var Folders = []Folder{Avatars, Posters, NewsImages, CompanyLogos}

// ParseFolder returns the folder named s.
func ParseFolder(s string) (Folder, bool) {
	for _, f := range Folders {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// FileName builds the stored name of an upload: folder, a random uuid and the
// original base name with spaces removed.
func FileName(folder Folder, original string) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	base = strings.ReplaceAll(base, " ", "")
	return string(folder) + "-" + uuid.NewString() + "-" + base
}

// validName rejects names that could escape their folder.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && !strings.Contains(name, "\x00")
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Store persists image bytes.
type Store interface {
	Save(ctx context.Context, folder Folder, name string, r io.Reader) error
	Open(ctx context.Context, folder Folder, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, folder Folder, name string) error
}

// Service names, stores and resolves images.
type Service struct {
	store         Store
	apiURL        string
	avatarMaxSize int
}

// NewService creates an image service. Avatars whose longest edge exceeds
// avatarMaxSize are downscaled; 0 disables this.
func NewService(store Store, apiURL string, avatarMaxSize int) *Service {
	return &Service{
		store:         store,
		apiURL:        strings.TrimSuffix(apiURL, "/"),
		avatarMaxSize: avatarMaxSize,
	}
}

// URL returns the public URL of an image.
func (s *Service) URL(folder Folder, name string) string {
	return s.apiURL + "/api/images/" + string(folder) + "/" + name
}

// URLs maps URL over names.
func (s *Service) URLs(folder Folder, names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = s.URL(folder, name)
	}
	return out
}

// AvatarURL is URL for the avatars folder.
func (s *Service) AvatarURL(name string) string {
	return s.URL(Avatars, name)
}

// Save stores an upload under a fresh name and returns that name.
func (s *Service) Save(ctx context.Context, folder Folder, original string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	if folder == Avatars && s.avatarMaxSize > 0 {
		data, err = downscale(data, s.avatarMaxSize)
		if err != nil {
			return "", fmt.Errorf("failed to resize avatar: %w", err)
		}
	}

	name := FileName(folder, original)
	if err := s.store.Save(ctx, folder, name, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return name, nil
}

// SaveUpload is Save for an Upload.
func (s *Service) SaveUpload(ctx context.Context, folder Folder, u Upload) (string, error) {
	return s.Save(ctx, folder, u.Filename, u.Content)
}

// SaveUploads stores several uploads. On failure the ones already stored are removed.
func (s *Service) SaveUploads(ctx context.Context, folder Folder, uploads []Upload) ([]string, error) {
	names := make([]string, 0, len(uploads))
	for _, u := range uploads {
		name, err := s.SaveUpload(ctx, folder, u)
		if err != nil {
			_ = s.RemoveAll(ctx, folder, names)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Open returns the content of an image or ErrNotFound.
func (s *Service) Open(ctx context.Context, folder Folder, name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, ErrNotFound
	}
	return s.store.Open(ctx, folder, name)
}

// Remove deletes an image. Removing a missing image is not an error.
func (s *Service) Remove(ctx context.Context, folder Folder, name string) error {
	if !validName(name) {
		return nil
	}
	if err := s.store.Remove(ctx, folder, name); err != nil {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// RemoveAll deletes several images and reports the first failure.
func (s *Service) RemoveAll(ctx context.Context, folder Folder, names []string) error {
	var errs []error
	for _, name := range names {
		errs = append(errs, s.Remove(ctx, folder, name))
	}
	return errors.Join(errs...)
}
