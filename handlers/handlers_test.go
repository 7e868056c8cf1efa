package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taita-blog/admin-gateway/middleware"
	"github.com/taita-blog/admin-gateway/models"
	"github.com/taita-blog/admin-gateway/routes"
	"github.com/taita-blog/admin-gateway/services/guard"
	"github.com/taita-blog/admin-gateway/services/tenant"
	"github.com/taita-blog/admin-gateway/session"
	"go.uber.org/zap"
)

// stubLookup is a canned tenant.Lookup for handler tests.
type stubLookup struct {
	blogs []models.Blog
	err   error
}

func (s *stubLookup) ListByAdmin(context.Context, int64, string) ([]models.Blog, error) {
	return s.blogs, s.err
}

func newHandlerGuard(lookup tenant.Lookup) *guard.Guard {
	logger := zap.NewNop()
	return guard.New(routes.DefaultTable(), tenant.NewResolver(lookup, logger), logger)
}

// withSession binds a fresh in-memory session to the request context, the
// way SessionMiddleware.Attach does in production.
func withSession(r *http.Request, sess *session.Session) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

func newMemorySession(t *testing.T, id string) *session.Session {
	t.Helper()
	return session.New(id, session.NewMemoryBackend())
}

func authenticate(t *testing.T, sess *session.Session, id int64, role models.Role) {
	t.Helper()
	require.NoError(t, sess.SetUser(context.Background(), &models.User{
		ID:    id,
		Email: "user@example.com",
		Role:  role,
	}))
	require.NoError(t, sess.SetToken(context.Background(), "bearer-token"))
}
