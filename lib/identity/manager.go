// Package identity implements login, logout and token validation over the
// users and tokens collections. Tokens are opaque and never expire; they stay
// valid until revoked by logout.
package identity

import (
	"context"

	"github.com/mockstack/mockstack/lib/store"
	"github.com/nrednav/cuid2"
)

type Manager interface {
	// Login checks the password for the named user and mints a new token.
	Login(ctx context.Context, name, password string) (*Session, error)
	// Logout revokes the token. A token that does not exist is not an error.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a token to its owning user id.
	Authenticate(ctx context.Context, token string) (string, error)
}

type manager struct {
	store      *store.Store
	generateId func() string
}

func NewManager(st *store.Store) Manager {
	return &manager{
		store:      st,
		generateId: cuid2.Generate,
	}
}

func (m *manager) Login(ctx context.Context, name, password string) (*Session, error) {
	var sess *Session
	err := m.store.Update(func(st *store.State) error {
		u, ok := st.Users[name]
		if !ok || u.Password != password {
			return ErrBadCredentials
		}
		token := m.generateId()
		st.Tokens[token] = u.Id
		sess = &Session{
			Token:   token,
			User:    UserSummary{Id: u.Id, Name: name, Role: u.Role},
			Project: Project{Id: ProjectId, Name: ProjectName},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *manager) Logout(ctx context.Context, token string) error {
	return m.store.Update(func(st *store.State) error {
		delete(st.Tokens, token)
		return nil
	})
}

func (m *manager) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	var userId string
	m.store.View(func(st *store.State) {
		userId = st.Tokens[token]
	})
	if userId == "" {
		return "", ErrInvalidToken
	}
	return userId, nil
}
