// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package images_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/alumni-api/internal/services/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFolder(t *testing.T) {
	for _, f := range images.Folders {
		got, ok := images.ParseFolder(string(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}

	_, ok := images.ParseFolder("secrets")
	assert.False(t, ok)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		suffix   string
	}{
		{"plain", "photo.png", "-photo.png"},
		{"spaces removed", "my holiday photo.jpg", "-myholidayphoto.jpg"},
		{"directory stripped", "../../etc/passwd", "-passwd"},
		{"windows path stripped", `C:\Users\ann\face.png`, "-face.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := images.FileName(images.Avatars, tt.original)

			assert.True(t, strings.HasPrefix(name, "avatars-"), name)
			assert.True(t, strings.HasSuffix(name, tt.suffix), name)
			assert.NotContains(t, name, "/")
			// avatars- + 36 char uuid + suffix
			assert.Len(t, name, len("avatars-")+36+len(tt.suffix))
		})
	}
}

func TestFileName_Unique(t *testing.T) {
	assert.NotEqual(t, images.FileName(images.Posters, "a.png"), images.FileName(images.Posters, "a.png"))
}

func TestURL(t *testing.T) {
	svc := images.NewService(images.NewDiskStore(t.TempDir()), "https://api.example.com/", 0)

	assert.Equal(t, "https://api.example.com/api/images/posters/p.png", svc.URL(images.Posters, "p.png"))
	assert.Equal(t, "https://api.example.com/api/images/avatars/a.png", svc.AvatarURL("a.png"))
	assert.Equal(t,
		[]string{"https://api.example.com/api/images/newsImages/1.png", "https://api.example.com/api/images/newsImages/2.png"},
		svc.URLs(images.NewsImages, []string{"1.png", "2.png"}))
	assert.Empty(t, svc.URLs(images.NewsImages, nil))
}

func TestService_SaveOpenRemove(t *testing.T) {
	dir := t.TempDir()
	svc := images.NewService(images.NewDiskStore(dir), "http://localhost", 0)
	ctx := context.Background()

	name, err := svc.Save(ctx, images.Posters, "poster one.png", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "posters", name))

	rc, err := svc.Open(ctx, images.Posters, name)
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "image-bytes", string(content))

	require.NoError(t, svc.Remove(ctx, images.Posters, name))
	assert.NoFileExists(t, filepath.Join(dir, "posters", name))

	_, err = svc.Open(ctx, images.Posters, name)
	assert.ErrorIs(t, err, images.ErrNotFound)

	assert.NoError(t, svc.Remove(ctx, images.Posters, name))
}

func TestService_OpenRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0o600))
	svc := images.NewService(images.NewDiskStore(dir), "http://localhost", 0)

	for _, name := range []string{"../secret.txt", "..", "", `..\secret.txt`} {
		_, err := svc.Open(context.Background(), images.Posters, name)
		assert.ErrorIs(t, err, images.ErrNotFound, name)
	}
}

func TestService_RemoveAll(t *testing.T) {
	dir := t.TempDir()
	svc := images.NewService(images.NewDiskStore(dir), "http://localhost", 0)
	ctx := context.Background()

	var names []string
	for range 3 {
		name, err := svc.Save(ctx, images.NewsImages, "n.png", strings.NewReader("x"))
		require.NoError(t, err)
		names = append(names, name)
	}

	require.NoError(t, svc.RemoveAll(ctx, images.NewsImages, names))

	entries, err := os.ReadDir(filepath.Join(dir, "newsImages"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func savedConfig(t *testing.T, dir string, folder images.Folder, name string) image.Config {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, string(folder), name))
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	return cfg
}

func TestService_DownscalesAvatars(t *testing.T) {
	dir := t.TempDir()
	svc := images.NewService(images.NewDiskStore(dir), "http://localhost", 100)
	ctx := context.Background()

	name, err := svc.Save(ctx, images.Avatars, "face.png", bytes.NewReader(encodePNG(t, 400, 200)))
	require.NoError(t, err)

	cfg := savedConfig(t, dir, images.Avatars, name)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestService_KeepsSmallAvatarsAndOtherFolders(t *testing.T) {
	dir := t.TempDir()
	svc := images.NewService(images.NewDiskStore(dir), "http://localhost", 100)
	ctx := context.Background()

	small := encodePNG(t, 80, 40)
	name, err := svc.Save(ctx, images.Avatars, "small.png", bytes.NewReader(small))
	require.NoError(t, err)
	stored, err := os.ReadFile(filepath.Join(dir, "avatars", name))
	require.NoError(t, err)
	assert.Equal(t, small, stored)

	name, err = svc.Save(ctx, images.Posters, "big.png", bytes.NewReader(encodePNG(t, 300, 300)))
	require.NoError(t, err)
	cfg := savedConfig(t, dir, images.Posters, name)
	assert.Equal(t, 300, cfg.Width)
}

func TestService_AvatarNotAnImage(t *testing.T) {
	dir := t.TempDir()
	svc := images.NewService(images.NewDiskStore(dir), "http://localhost", 100)

	name, err := svc.Save(context.Background(), images.Avatars, "notes.txt", strings.NewReader("hello"))

	require.NoError(t, err)
	stored, err := os.ReadFile(filepath.Join(dir, "avatars", name))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(stored))
}
