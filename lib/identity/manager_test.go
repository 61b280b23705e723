package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"

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

func TestLogin_SeededAdmin(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	sess, err := m.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "user-1", sess.User.Id)
	assert.Equal(t, "admin", sess.User.Name)
	assert.Equal(t, "admin", sess.User.Role)
	assert.Equal(t, "mock-project", sess.Project.Id)
	assert.Equal(t, "MockProject", sess.Project.Name)
}

func TestLogin_WrongPassword(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	_, err := m.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	_, err := m.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin_MintsDistinctTokens(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	first, err := m.Login(ctx, "demo", "test")
	require.NoError(t, err)
	second, err := m.Login(ctx, "demo", "test")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)

	// Both tokens stay valid; login does not revoke earlier sessions
	_, err = m.Authenticate(ctx, first.Token)
	assert.NoError(t, err)
	_, err = m.Authenticate(ctx, second.Token)
	assert.NoError(t, err)
}

func TestAuthenticate_TokenLifecycle(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	sess, err := m.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	userId, err := m.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userId)

	require.NoError(t, m.Logout(ctx, sess.Token))

	_, err = m.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_EmptyAndUnknownTokens(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	_, err := m.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Authenticate(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_AbsentTokenIsIdempotent(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	assert.NoError(t, m.Logout(ctx, "never-issued"))
}
