package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/hissterical/MindfulPay/internal/kvstore"
)

// ErrStoreUnavailable is returned by FailingStore for failing keys.
var ErrStoreUnavailable = errors.New("store unavailable")

// FailingStore wraps a Store and fails reads or writes of selected keys.
type FailingStore struct {
	kvstore.Store

	mu         sync.Mutex
	failReads  map[string]bool
	failWrites map[string]bool
}

// NewFailingStore wraps an in-memory store.
func NewFailingStore() *FailingStore {
	return &FailingStore{
		Store:      kvstore.NewMemory(),
		failReads:  map[string]bool{},
		failWrites: map[string]bool{},
	}
}

// FailReads makes reads of key fail until reset.
func (s *FailingStore) FailReads(key string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads[key] = fail
}

// FailWrites makes writes and removals of key fail until reset.
func (s *FailingStore) FailWrites(key string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites[key] = fail
}

func (s *FailingStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	fail := s.failReads[key]
	s.mu.Unlock()
	if fail {
		return nil, false, ErrStoreUnavailable
	}
	return s.Store.Read(ctx, key)
}

func (s *FailingStore) Write(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failWrites[key]
	s.mu.Unlock()
	if fail {
		return ErrStoreUnavailable
	}
	return s.Store.Write(ctx, key, value)
}

func (s *FailingStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	fail := s.failWrites[key]
	s.mu.Unlock()
	if fail {
		return ErrStoreUnavailable
	}
	return s.Store.Remove(ctx, key)
}
