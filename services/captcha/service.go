// Package captcha generates and validates short-lived text challenges shown
// on the login form.
package captcha

import (
	"errors"
	"fmt"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	idAlphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength     = 12
	// Ambiguous glyphs (0/O, 1/l/I) are excluded from challenge text.
	textAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"
	textLength   = 5
)

// ErrChallengeNotFound is returned when the challenge ID is unknown or the
// challenge already expired.
var ErrChallengeNotFound = errors.New("captcha challenge not found")

// Challenge is one pending CAPTCHA.
type Challenge struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service issues single-use challenges kept in memory with a TTL.
type Service struct {
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]Challenge
}

// NewService creates a captcha service. ttl bounds challenge lifetime.
func NewService(ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
		pending: make(map[string]Challenge),
	}
}

// Generate issues a new challenge and stores it until validated or expired.
func (s *Service) Generate() (Challenge, error) {
	id, err := nanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return Challenge{}, fmt.Errorf("failed to generate challenge id: %w", err)
	}
	text, err := nanoid.Generate(textAlphabet, textLength)
	if err != nil {
		return Challenge{}, fmt.Errorf("failed to generate challenge text: %w", err)
	}

	ch := Challenge{
		ID:        id,
		Text:      text,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.evictExpiredLocked()
	s.pending[id] = ch
	s.mu.Unlock()

	return ch, nil
}

// Validate consumes a challenge: it returns true when the answer matches
// the challenge text exactly. The challenge is removed regardless of the
// outcome, so each challenge admits one attempt.
func (s *Service) Validate(id, answer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.pending[id]
	if !ok {
		return false, ErrChallengeNotFound
	}
	delete(s.pending, id)

	if s.now().After(ch.ExpiresAt) {
		return false, ErrChallengeNotFound
	}
	return answer == ch.Text, nil
}

func (s *Service) evictExpiredLocked() {
	now := s.now()
	for id, ch := range s.pending {
		if now.After(ch.ExpiresAt) {
			delete(s.pending, id)
		}
	}
}
