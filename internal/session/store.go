package session

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrTokenNotFound is returned by Get for tokens that were never stored.
	ErrTokenNotFound = errors.New("session token not found")
	// ErrTokenExists is returned by Put when the token is already mapped.
	ErrTokenExists = errors.New("session token already registered")
)

// Store maps tokens to hospital ids. Entries never expire and are never
// overwritten: Put on an existing token fails with ErrTokenExists.
type Store interface {
	Put(ctx context.Context, token Token, hospitalID uint) error
	Get(ctx context.Context, token Token) (uint, error)
	Len(ctx context.Context) (int, error)
}

// MemoryStore is a process-local Store guarded by a RWMutex.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[Token]uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m: make(map[Token]uint),
	}
}

func (s *MemoryStore) Put(_ context.Context, token Token, hospitalID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[token]; ok {
		return ErrTokenExists
	}
	s.m[token] = hospitalID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token Token) (uint, error) {
	s.mu.RLock()
	id, ok := s.m[token]
	s.mu.RUnlock()

	if !ok {
		return 0, ErrTokenNotFound
	}
	return id, nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m), nil
}

// Clear drops every session.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.m = make(map[Token]uint)
	s.mu.Unlock()
}
