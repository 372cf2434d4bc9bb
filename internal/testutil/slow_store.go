package testutil

import (
	"context"
	"time"

	"github.com/hissterical/MindfulPay/internal/kvstore"
)

// SlowStore wraps a Store and delays every read, widening the window between
// a service reading a record and writing it back.
type SlowStore struct {
	kvstore.Store
	delay time.Duration
}

// NewSlowStore wraps an in-memory store whose reads take delay.
func NewSlowStore(delay time.Duration) *SlowStore {
	return &SlowStore{Store: kvstore.NewMemory(), delay: delay}
}

func (s *SlowStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
	return s.Store.Read(ctx, key)
}
