// Package attachments implements the relationship records linking servers and
// volumes. At most one attachment may exist per (server, volume) pair. The
// referenced server and volume are never checked for existence, matching the
// loose coupling of the mocked API.
package attachments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mockstack/mockstack/lib/store"
	"github.com/samber/lo"
)

type Manager interface {
	// Attach records a new attachment for the server.
	Attach(ctx context.Context, serverId string, req AttachRequest) (*Attachment, error)
	// ListAttachments returns the attachments for one server, insertion order.
	ListAttachments(ctx context.Context, serverId string) ([]Attachment, error)
	// Detach removes the attachment matching both ids exactly.
	Detach(ctx context.Context, serverId, attachmentId string) error
}

type manager struct {
	store *store.Store
}

func NewManager(st *store.Store) Manager {
	return &manager{store: st}
}

func (m *manager) Attach(ctx context.Context, serverId string, req AttachRequest) (*Attachment, error) {
	if req.VolumeId == "" {
		return nil, ErrMissingVolume
	}

	att := Attachment{
		Id:         uuid.NewString(),
		ServerId:   serverId,
		VolumeId:   req.VolumeId,
		Device:     req.Device,
		AttachedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if att.Device == "" {
		att.Device = DefaultDevice
	}

	err := m.store.Update(func(st *store.State) error {
		for _, a := range st.Attachments {
			if a.ServerId == serverId && a.VolumeId == req.VolumeId {
				return ErrAlreadyAttached
			}
		}
		st.Attachments = append(st.Attachments, att)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (m *manager) ListAttachments(ctx context.Context, serverId string) ([]Attachment, error) {
	out := []Attachment{}
	m.store.View(func(st *store.State) {
		out = append(out, lo.Filter(st.Attachments, func(a Attachment, _ int) bool {
			return a.ServerId == serverId
		})...)
	})
	return out, nil
}

func (m *manager) Detach(ctx context.Context, serverId, attachmentId string) error {
	return m.store.Update(func(st *store.State) error {
		for i, a := range st.Attachments {
			if a.ServerId == serverId && a.Id == attachmentId {
				st.Attachments = append(st.Attachments[:i], st.Attachments[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
