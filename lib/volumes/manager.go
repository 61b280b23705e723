// Package volumes implements the volume collection.
package volumes

import (
	"context"

	"github.com/google/uuid"
	"github.com/mockstack/mockstack/lib/store"
)

type Manager interface {
	ListVolumes(ctx context.Context) ([]Volume, error)
	CreateVolume(ctx context.Context, req CreateVolumeRequest) (*Volume, error)
	GetVolume(ctx context.Context, id string) (*Volume, error)
	DeleteVolume(ctx context.Context, id string) error
}

type manager struct {
	store *store.Store
}

func NewManager(st *store.Store) Manager {
	return &manager{store: st}
}

func (m *manager) ListVolumes(ctx context.Context) ([]Volume, error) {
	out := []Volume{}
	m.store.View(func(st *store.State) {
		out = append(out, st.Volumes...)
	})
	return out, nil
}

func (m *manager) CreateVolume(ctx context.Context, req CreateVolumeRequest) (*Volume, error) {
	vol := Volume{
		Id:     uuid.NewString(),
		Name:   req.Name,
		Size:   req.Size,
		Status: StatusAvailable,
	}
	err := m.store.Update(func(st *store.State) error {
		st.Volumes = append(st.Volumes, vol)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &vol, nil
}

func (m *manager) GetVolume(ctx context.Context, id string) (*Volume, error) {
	var found *Volume
	m.store.View(func(st *store.State) {
		for _, vol := range st.Volumes {
			if vol.Id == id {
				cp := vol
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

func (m *manager) DeleteVolume(ctx context.Context, id string) error {
	return m.store.Update(func(st *store.State) error {
		for i, vol := range st.Volumes {
			if vol.Id == id {
				st.Volumes = append(st.Volumes[:i], st.Volumes[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
