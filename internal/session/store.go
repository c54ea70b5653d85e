package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/polkiloo/ashconsole/internal/domain/model"
	"github.com/polkiloo/ashconsole/internal/domain/repository"
)

// Listener is notified with the new token pair after every change.
type Listener func(model.TokenPair)

// Store is the device's single session. It caches the persisted token pair
// and fans out changes to subscribers.
type Store struct {
	repo   repository.TokenRepository
	logger *slog.Logger

	mu   sync.RWMutex
	pair model.TokenPair

	subsMu    sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewStore restores the persisted pair from repo.
func NewStore(ctx context.Context, repo repository.TokenRepository, logger *slog.Logger) (*Store, error) {
	pair, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return &Store{
		repo:      repo,
		logger:    logger,
		pair:      pair,
		listeners: make(map[int]Listener),
	}, nil
}

// Tokens returns the current pair.
func (s *Store) Tokens() model.TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

// AccessToken returns the current access token or "".
func (s *Store) AccessToken() string {
	return s.Tokens().AccessToken
}

// Authenticated is true iff an access token is present.
func (s *Store) Authenticated() bool {
	return s.AccessToken() != ""
}

// Set persists pair and replaces the cached copy.
func (s *Store) Set(ctx context.Context, pair model.TokenPair) error {
	s.mu.Lock()
	if err := s.repo.Save(ctx, pair); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.pair = pair
	s.mu.Unlock()

	s.notify(pair)
	return nil
}

// Clear drops both tokens. The in-memory session is always torn down, even
// when the persistent copy cannot be removed.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	changed := !s.pair.Empty()
	s.pair = model.TokenPair{}
	err := s.repo.Clear(ctx)
	s.mu.Unlock()

	if changed {
		s.notify(model.TokenPair{})
	}
	if err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// Subscribe registers fn and returns a function removing it.
func (s *Store) Subscribe(fn Listener) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(pair model.TokenPair) {
	s.subsMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.subsMu.Unlock()

	for _, l := range listeners {
		l(pair)
	}
}

// Info describes the session. Expiry is read from the access token's exp
// claim without verifying the signature; the backend remains the verifier.
func (s *Store) Info() model.SessionInfo {
	token := s.AccessToken()
	info := model.SessionInfo{Authenticated: token != ""}
	if token == "" {
		return info
	}
	if exp, ok := accessTokenExpiry(token); ok {
		info.ExpiresAt = &exp
	} else {
		s.logger.Debug("access token carries no readable expiry")
	}
	return info
}

func accessTokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
