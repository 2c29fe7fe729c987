// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package images

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStore keeps images below a local directory, one subdirectory per folder.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (d *DiskStore) path(folder Folder, name string) string {
	return filepath.Join(d.dir, string(folder), name)
}

func (d *DiskStore) Save(_ context.Context, folder Folder, name string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Join(d.dir, string(folder)), 0o755); err != nil {
		return err
	}

	f, err := os.Create(d.path(folder, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	return f.Close()
}

func (d *DiskStore) Open(_ context.Context, folder Folder, name string) (io.ReadCloser, error) {
	f, err := os.Open(d.path(folder, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (d *DiskStore) Remove(_ context.Context, folder Folder, name string) error {
	err := os.Remove(d.path(folder, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
