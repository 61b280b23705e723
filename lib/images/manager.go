// Package images implements the image collection. Created images stay in
// status "queued"; nothing in this system transitions them to "active".
package images

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mockstack/mockstack/lib/store"
)

type Manager interface {
	ListImages(ctx context.Context) ([]Image, error)
	CreateImage(ctx context.Context, req CreateImageRequest) (*Image, error)
	GetImage(ctx context.Context, id string) (*Image, error)
	DeleteImage(ctx context.Context, id string) error
}

type manager struct {
	store *store.Store
}

func NewManager(st *store.Store) Manager {
	return &manager{store: st}
}

func (m *manager) ListImages(ctx context.Context) ([]Image, error) {
	out := []Image{}
	m.store.View(func(st *store.State) {
		out = append(out, st.Images...)
	})
	return out, nil
}

func (m *manager) CreateImage(ctx context.Context, req CreateImageRequest) (*Image, error) {
	img := Image{
		Id:              uuid.NewString(),
		Name:            req.Name,
		Status:          StatusQueued,
		Size:            req.Size,
		Visibility:      req.Visibility,
		ContainerFormat: req.ContainerFormat,
		DiskFormat:      req.DiskFormat,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if img.Visibility == "" {
		img.Visibility = DefaultVisibility
	}
	if img.ContainerFormat == "" {
		img.ContainerFormat = DefaultContainerFormat
	}
	if img.DiskFormat == "" {
		img.DiskFormat = DefaultDiskFormat
	}

	err := m.store.Update(func(st *store.State) error {
		st.Images = append(st.Images, img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (m *manager) GetImage(ctx context.Context, id string) (*Image, error) {
	var found *Image
	m.store.View(func(st *store.State) {
		for _, img := range st.Images {
			if img.Id == id {
				cp := img
				found = &cp
				break
			}
		}
	})
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (m *manager) DeleteImage(ctx context.Context, id string) error {
	return m.store.Update(func(st *store.State) error {
		for i, img := range st.Images {
			if img.Id == id {
				st.Images = append(st.Images[:i], st.Images[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
