// Package servers implements the server collection. Created servers stay in
// status "BUILD"; no provisioning ever happens behind them.
package servers

import (
	"context"

	"github.com/google/uuid"
	"github.com/mockstack/mockstack/lib/store"
)

type Manager interface {
	ListServers(ctx context.Context) ([]Server, error)
	CreateServer(ctx context.Context, req CreateServerRequest) (*Server, error)
	GetServer(ctx context.Context, id string) (*Server, error)
	DeleteServer(ctx context.Context, id string) error
}

type manager struct {
	store *store.Store
}

func NewManager(st *store.Store) Manager {
	return &manager{store: st}
}

func (m *manager) ListServers(ctx context.Context) ([]Server, error) {
	out := []Server{}
	m.store.View(func(st *store.State) {
		out = append(out, st.Servers...)
	})
	return out, nil
}

func (m *manager) CreateServer(ctx context.Context, req CreateServerRequest) (*Server, error) {
	srv := Server{
		Id:       uuid.NewString(),
		Name:     req.Name,
		Status:   StatusBuild,
		ImageId:  req.ImageId,
		FlavorId: req.FlavorId,
	}
	err := m.store.Update(func(st *store.State) error {
		st.Servers = append(st.Servers, srv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

func (m *manager) GetServer(ctx context.Context, id string) (*Server, error) {
	var found *Server
	m.store.View(func(st *store.State) {
		for _, srv := range st.Servers {
			if srv.Id == id {
				cp := srv
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

func (m *manager) DeleteServer(ctx context.Context, id string) error {
	return m.store.Update(func(st *store.State) error {
		for i, srv := range st.Servers {
			if srv.Id == id {
				st.Servers = append(st.Servers[:i], st.Servers[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
