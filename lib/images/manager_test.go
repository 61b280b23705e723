package images

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mockstack/mockstack/lib/paths"
	"github.com/mockstack/mockstack/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) Manager {
	t.Helper()

	st, err := store.Open(paths.New(t.TempDir()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return NewManager(st)
}

func TestListImages_IncludesSeed(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	imgs, err := m.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Equal(t, "Cirros", imgs[0].Name)
	assert.Equal(t, StatusActive, imgs[0].Status)
}

func TestCreateImage_AppliesDefaults(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	img, err := m.CreateImage(ctx, CreateImageRequest{Name: "ubuntu"})
	require.NoError(t, err)
	assert.NotEmpty(t, img.Id)
	assert.Equal(t, "ubuntu", img.Name)
	assert.Equal(t, StatusQueued, img.Status)
	assert.EqualValues(t, 0, img.Size)
	assert.Equal(t, DefaultVisibility, img.Visibility)
	assert.Equal(t, DefaultContainerFormat, img.ContainerFormat)
	assert.Equal(t, DefaultDiskFormat, img.DiskFormat)

	created, err := time.Parse(time.RFC3339, img.CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), created, time.Minute)
}

func TestCreateImage_ThenGetReturnsSameEntity(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	img, err := m.CreateImage(ctx, CreateImageRequest{
		Name:            "fedora",
		Size:            1024,
		Visibility:      "public",
		ContainerFormat: "ovf",
		DiskFormat:      "raw",
	})
	require.NoError(t, err)

	got, err := m.GetImage(ctx, img.Id)
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

func TestGetImage_NotFound(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	_, err := m.GetImage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteImage_ThenGetAndDeleteAgainNotFound(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	img, err := m.CreateImage(ctx, CreateImageRequest{Name: "tmp"})
	require.NoError(t, err)

	require.NoError(t, m.DeleteImage(ctx, img.Id))

	_, err = m.GetImage(ctx, img.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.DeleteImage(ctx, img.Id), ErrNotFound)
}

func TestListImages_InsertionOrder(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	first, err := m.CreateImage(ctx, CreateImageRequest{Name: "first"})
	require.NoError(t, err)
	second, err := m.CreateImage(ctx, CreateImageRequest{Name: "second"})
	require.NoError(t, err)

	imgs, err := m.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, imgs, 3)
	assert.Equal(t, "Cirros", imgs[0].Name)
	assert.Equal(t, first.Id, imgs[1].Id)
	assert.Equal(t, second.Id, imgs[2].Id)
}
