package middleware

import (
	"net/http"

	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/taita-blog/admin-gateway/session"
	"github.com/taita-blog/admin-gateway/token"
	"go.uber.org/zap"
)

const sessionIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SessionMiddleware binds every request to a browser session. The session
// ID travels in a signed cookie; an absent, invalid, or expired cookie
// yields a fresh anonymous session (fail closed: no user, no tenant).
type SessionMiddleware struct {
	manager      *token.Manager
	backend      session.Backend
	cookieName   string
	cookieSecure bool
	logger       *zap.Logger
}

// NewSessionMiddleware creates a new SessionMiddleware.
func NewSessionMiddleware(manager *token.Manager, backend session.Backend, cookieName string, cookieSecure bool, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		manager:      manager,
		backend:      backend,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Attach resolves the request's session and stores it in the context.
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		sessionID := m.sessionIDFromCookie(r)
		if sessionID == "" {
			fresh, err := m.startSession(w)
			if err != nil {
				m.logger.Error("failed to start session",
					zap.String("request_id", requestID),
					zap.Error(err))
				http.Error(w, "failed to start session", http.StatusInternalServerError)
				return
			}
			sessionID = fresh
		}

		sess := session.New(sessionID, m.backend)
		next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
	})
}

func (m *SessionMiddleware) sessionIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	sessionID, err := m.manager.Validate(cookie.Value)
	if err != nil {
		// Expired or tampered cookie: start over anonymously.
		m.logger.Debug("session cookie rejected", zap.Error(err))
		return ""
	}
	return sessionID
}

func (m *SessionMiddleware) startSession(w http.ResponseWriter) (string, error) {
	id, err := nanoid.Generate(sessionIDAlphabet, 21)
	if err != nil {
		return "", err
	}
	sessionID := "sess-" + id

	signed, err := m.manager.Issue(sessionID)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID, nil
}
