package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taita-blog/admin-gateway/session"
	"github.com/taita-blog/admin-gateway/token"
	"go.uber.org/zap"
)

func newSessionMiddleware(t *testing.T) (*SessionMiddleware, *token.Manager) {
	t.Helper()
	manager, err := token.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	m := NewSessionMiddleware(manager, session.NewMemoryBackend(), "taita_session", false, zap.NewNop())
	return m, manager
}

func TestAttach(t *testing.T) {
	t.Run("no cookie starts a fresh session", func(t *testing.T) {
		m, manager := newSessionMiddleware(t)

		var attached *session.Session
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attached = GetSessionFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		rec := httptest.NewRecorder()
		m.Attach(next).ServeHTTP(rec, req)

		require.NotNil(t, attached)
		assert.True(t, strings.HasPrefix(attached.ID(), "sess-"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie := cookies[0]
		assert.Equal(t, "taita_session", cookie.Name)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

		// The cookie must validate back to the attached session.
		sessionID, err := manager.Validate(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, attached.ID(), sessionID)
	})

	t.Run("valid cookie reuses the session", func(t *testing.T) {
		m, manager := newSessionMiddleware(t)

		signed, err := manager.Issue("sess-existing")
		require.NoError(t, err)

		var attached *session.Session
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attached = GetSessionFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.AddCookie(&http.Cookie{Name: "taita_session", Value: signed})
		rec := httptest.NewRecorder()
		m.Attach(next).ServeHTTP(rec, req)

		require.NotNil(t, attached)
		assert.Equal(t, "sess-existing", attached.ID())
		// No replacement cookie is issued.
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("tampered cookie starts over anonymously", func(t *testing.T) {
		m, _ := newSessionMiddleware(t)

		other, err := token.NewManager("other-secret", time.Hour)
		require.NoError(t, err)
		forged, err := other.Issue("sess-forged")
		require.NoError(t, err)

		var attached *session.Session
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attached = GetSessionFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.AddCookie(&http.Cookie{Name: "taita_session", Value: forged})
		rec := httptest.NewRecorder()
		m.Attach(next).ServeHTTP(rec, req)

		require.NotNil(t, attached)
		assert.NotEqual(t, "sess-forged", attached.ID())
		assert.Len(t, rec.Result().Cookies(), 1)
	})
}
