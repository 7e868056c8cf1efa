package app

import (
	"context"
	"fmt"

	"github.com/taita-blog/admin-gateway/apiclient"
	"github.com/taita-blog/admin-gateway/config"
	"github.com/taita-blog/admin-gateway/middleware"
	"github.com/taita-blog/admin-gateway/repositories/postgres"
	"github.com/taita-blog/admin-gateway/routes"
	"github.com/taita-blog/admin-gateway/services/captcha"
	"github.com/taita-blog/admin-gateway/services/guard"
	"github.com/taita-blog/admin-gateway/services/tenant"
	"github.com/taita-blog/admin-gateway/session"
	"github.com/taita-blog/admin-gateway/token"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger
	DB     *postgres.DB // nil when sessions are in-memory

	// Session plumbing
	SessionBackend session.Backend
	TokenManager   *token.Manager

	// Route table and navigation core
	Table        *routes.Table
	TenantLookup tenant.Lookup
	Resolver     *tenant.Resolver
	Guard        *guard.Guard

	// Upstream API
	APIClient *apiclient.Client

	// Services
	Captcha *captcha.Service

	// Middleware
	SessionMiddleware *middleware.SessionMiddleware
	GuardMiddleware   *middleware.GuardMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initRouteTable(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize route table: %w", err)
	}

	if err := deps.initSessionStore(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	if err := deps.initNavigation(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize navigation core: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initRouteTable loads the configured route table file or falls back to the
// built-in table.
func (d *Dependencies) initRouteTable(cfg *config.Config) error {
	if cfg.Routes.File == "" {
		d.Table = routes.DefaultTable()
		d.Logger.Info("using built-in route table",
			zap.Int("routes", len(d.Table.Routes)))
		return nil
	}

	table, err := routes.LoadFile(cfg.Routes.File)
	if err != nil {
		return err
	}
	d.Table = table
	d.Logger.Info("route table loaded",
		zap.String("file", cfg.Routes.File),
		zap.Int("routes", len(table.Routes)))
	return nil
}

// initSessionStore initializes the session backend (PostgreSQL when
// configured, in-memory otherwise) and the cookie token manager.
func (d *Dependencies) initSessionStore(ctx context.Context, cfg *config.Config) error {
	if cfg.SessionDB != nil {
		db, err := postgres.NewDB(*cfg.SessionDB, d.Logger)
		if err != nil {
			return err
		}
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("session database ping failed: %w", err)
		}
		d.DB = db
		d.SessionBackend = postgres.NewSessionBackend(db, d.Logger)
	} else {
		d.SessionBackend = session.NewMemoryBackend()
		d.Logger.Warn("no session database configured, using in-memory sessions")
	}

	manager, err := token.NewManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return err
	}
	d.TokenManager = manager

	d.SessionMiddleware = middleware.NewSessionMiddleware(
		manager,
		d.SessionBackend,
		cfg.Auth.CookieName,
		cfg.Auth.CookieSecure,
		d.Logger,
	)
	return nil
}

// initNavigation wires the upstream API client, the tenant resolver, and
// the navigation guard.
func (d *Dependencies) initNavigation(cfg *config.Config) error {
	client := apiclient.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, d.Logger)

	// Upstream 401/403 responses clear the session's auth keys. The guard
	// re-reads session state on every navigation, so the next attempt
	// lands on login.
	client.OnAuthReject(func(ctx context.Context) {
		sess := middleware.GetSessionFromContext(ctx)
		if sess == nil {
			return
		}
		if err := sess.ClearAuth(ctx); err != nil {
			d.Logger.Error("failed to clear auth state after upstream rejection",
				zap.Error(err))
		}
	})
	d.APIClient = client

	d.TenantLookup = tenant.NewHTTPLookup(client, cfg.Upstream.TenantLookupTimeout)
	d.Resolver = tenant.NewResolver(d.TenantLookup, d.Logger)
	d.Guard = guard.New(d.Table, d.Resolver, d.Logger)
	d.GuardMiddleware = middleware.NewGuardMiddleware(d.Guard, d.Table, d.Logger)

	d.Captcha = captcha.NewService(cfg.Auth.CaptchaTTL, d.Logger)

	d.Logger.Info("navigation core initialized",
		zap.String("upstream", cfg.Upstream.BaseURL))
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close session database: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
