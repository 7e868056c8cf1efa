package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taita-blog/admin-gateway/session"
	"go.uber.org/zap"
)

func newMockBackend(t *testing.T) (session.Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewSessionBackend(WrapDB(db, zap.NewNop()), zap.NewNop()), mock
}

func TestSessionBackendGet(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored value", func(t *testing.T) {
		backend, mock := newMockBackend(t)

		mock.ExpectQuery("SELECT value").
			WithArgs("sess-1", session.KeyAuthToken).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("bearer-abc"))

		got, err := backend.Get(ctx, "sess-1", session.KeyAuthToken)
		require.NoError(t, err)
		assert.Equal(t, "bearer-abc", got)
	})

	t.Run("missing key reads as empty, not an error", func(t *testing.T) {
		backend, mock := newMockBackend(t)

		mock.ExpectQuery("SELECT value").
			WithArgs("sess-1", session.KeyActiveBlog).
			WillReturnError(sql.ErrNoRows)

		got, err := backend.Get(ctx, "sess-1", session.KeyActiveBlog)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("database failures surface as errors", func(t *testing.T) {
		backend, mock := newMockBackend(t)

		mock.ExpectQuery("SELECT value").
			WithArgs("sess-1", session.KeyAuthUser).
			WillReturnError(errors.New("connection reset"))

		_, err := backend.Get(ctx, "sess-1", session.KeyAuthUser)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read session key")
	})
}

func TestSessionBackendSet(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts the key", func(t *testing.T) {
		backend, mock := newMockBackend(t)

		mock.ExpectExec("INSERT INTO session_entries").
			WithArgs("sess-1", session.KeyActiveBlog, "tenant-uuid", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := backend.Set(ctx, "sess-1", session.KeyActiveBlog, "tenant-uuid")
		require.NoError(t, err)
	})

	t.Run("write failures surface as errors", func(t *testing.T) {
		backend, mock := newMockBackend(t)

		mock.ExpectExec("INSERT INTO session_entries").
			WithArgs("sess-1", session.KeyAuthToken, "tok", sqlmock.AnyArg()).
			WillReturnError(errors.New("disk full"))

		err := backend.Set(ctx, "sess-1", session.KeyAuthToken, "tok")
		require.Error(t, err)
	})
}

func TestSessionBackendDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the named keys", func(t *testing.T) {
		backend, mock := newMockBackend(t)

		mock.ExpectExec("DELETE FROM session_entries").
			WithArgs("sess-1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := backend.Delete(ctx, "sess-1", session.KeyAuthToken, session.KeyAuthUser)
		require.NoError(t, err)
	})

	t.Run("no keys is a no-op", func(t *testing.T) {
		backend, _ := newMockBackend(t)

		err := backend.Delete(ctx, "sess-1")
		require.NoError(t, err)
	})
}

func TestSessionBackendClear(t *testing.T) {
	ctx := context.Background()
	backend, mock := newMockBackend(t)

	mock.ExpectExec("DELETE FROM session_entries").
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := backend.Clear(ctx, "sess-1")
	require.NoError(t, err)
}
