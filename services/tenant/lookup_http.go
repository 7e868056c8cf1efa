package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/taita-blog/admin-gateway/apiclient"
	"github.com/taita-blog/admin-gateway/models"
)

// HTTPLookup implements Lookup against the upstream blog-listing endpoint
// GET /api/blogs?adminId={id}. A per-call deadline bounds the lookup; on
// expiry the caller's fail-closed path applies.
type HTTPLookup struct {
	client  *apiclient.Client
	timeout time.Duration
}

// NewHTTPLookup creates a lookup bound to the upstream API client.
func NewHTTPLookup(client *apiclient.Client, timeout time.Duration) *HTTPLookup {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &HTTPLookup{
		client:  client,
		timeout: timeout,
	}
}

// ListByAdmin lists the blogs assigned to the given admin user.
func (l *HTTPLookup) ListByAdmin(ctx context.Context, adminID int64, bearerToken string) ([]models.Blog, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var blogs []models.Blog
	path := fmt.Sprintf("/api/blogs?adminId=%d", adminID)
	if err := l.client.GetJSON(ctx, path, bearerToken, &blogs); err != nil {
		return nil, fmt.Errorf("failed to list blogs for admin %d: %w", adminID, err)
	}
	return blogs, nil
}
