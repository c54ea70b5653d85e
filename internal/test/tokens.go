package test

import (
	"context"
	"sync"

	"github.com/polkiloo/ashconsole/internal/domain/model"
)

// TokenRepositoryStub keeps the token pair in memory.
type TokenRepositoryStub struct {
	mu       sync.Mutex
	Pair     model.TokenPair
	LoadErr  error
	SaveErr  error
	ClearErr error
	Saves    int
	Clears   int
}

// Load returns the stored pair or configured error.
func (s *TokenRepositoryStub) Load(context.Context) (model.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return model.TokenPair{}, s.LoadErr
	}
	return s.Pair, nil
}

// Save records the pair unless SaveErr is set.
func (s *TokenRepositoryStub) Save(_ context.Context, pair model.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Pair = pair
	s.Saves++
	return nil
}

// Clear forgets the pair. The pair is dropped even when ClearErr is set.
func (s *TokenRepositoryStub) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clears++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Pair = model.TokenPair{}
	return nil
}

// Stored returns the persisted pair under lock.
func (s *TokenRepositoryStub) Stored() model.TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Pair
}
