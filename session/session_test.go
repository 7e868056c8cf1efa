package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taita-blog/admin-gateway/models"
)

func TestSessionAccessors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty session reads as anonymous", func(t *testing.T) {
		sess := New("sess-1", NewMemoryBackend())

		user, err := sess.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)

		tok, err := sess.Token(ctx)
		require.NoError(t, err)
		assert.Empty(t, tok)

		active, err := sess.ActiveTenant(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("user round trip", func(t *testing.T) {
		sess := New("sess-1", NewMemoryBackend())

		want := &models.User{ID: 7, Email: "admin@example.com", Role: models.RoleAdmin}
		require.NoError(t, sess.SetUser(ctx, want))

		got, err := sess.CurrentUser(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Email, got.Email)
		assert.Equal(t, want.Role, got.Role)
	})

	t.Run("corrupt authUser reads as nil user", func(t *testing.T) {
		backend := NewMemoryBackend()
		sess := New("sess-1", backend)
		require.NoError(t, backend.Set(ctx, "sess-1", KeyAuthUser, "{definitely not json"))

		user, err := sess.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown persisted role normalizes to ADMIN", func(t *testing.T) {
		backend := NewMemoryBackend()
		sess := New("sess-1", backend)
		require.NoError(t, backend.Set(ctx, "sess-1", KeyAuthUser, `{"id":3,"role":"WIZARD"}`))

		user, err := sess.CurrentUser(ctx)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("token and tenant round trip", func(t *testing.T) {
		sess := New("sess-1", NewMemoryBackend())

		require.NoError(t, sess.SetToken(ctx, "bearer-abc"))
		require.NoError(t, sess.SetActiveTenant(ctx, "tenant-uuid"))

		tok, err := sess.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "bearer-abc", tok)

		active, err := sess.ActiveTenant(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tenant-uuid", active)
	})
}

func TestClearAuth(t *testing.T) {
	ctx := context.Background()
	sess := New("sess-1", NewMemoryBackend())

	require.NoError(t, sess.SetUser(ctx, &models.User{ID: 7, Role: models.RoleAdmin}))
	require.NoError(t, sess.SetToken(ctx, "bearer-abc"))
	require.NoError(t, sess.SetActiveTenant(ctx, "tenant-uuid"))

	require.NoError(t, sess.ClearAuth(ctx))

	user, err := sess.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	tok, err := sess.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	// The tenant selection survives an auth clear.
	active, err := sess.ActiveTenant(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tenant-uuid", active)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	sess := New("sess-1", NewMemoryBackend())

	require.NoError(t, sess.SetToken(ctx, "bearer-abc"))
	require.NoError(t, sess.SetActiveTenant(ctx, "tenant-uuid"))

	require.NoError(t, sess.Clear(ctx))

	tok, err := sess.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	active, err := sess.ActiveTenant(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMemoryBackendIsolation(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	require.NoError(t, backend.Set(ctx, "sess-a", KeyAuthToken, "token-a"))
	require.NoError(t, backend.Set(ctx, "sess-b", KeyAuthToken, "token-b"))

	require.NoError(t, backend.Clear(ctx, "sess-a"))

	got, err := backend.Get(ctx, "sess-b", KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "token-b", got)
}
