package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Repository wraps a Store and serializes updates of the same key, so two
// concurrent writers of one logical record cannot lose each other's change.
type Repository struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRepository creates a Repository over store.
func NewRepository(store Store) *Repository {
	return &Repository{store: store, locks: make(map[string]*sync.Mutex)}
}

// Store returns the underlying store.
func (r *Repository) Store() Store {
	return r.store
}

func (r *Repository) lock(key string) func() {
	r.mu.Lock()
	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	r.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Update runs fn on the current value of key while holding the key's lock
// and writes back what fn returns. fn receives nil when the key is missing.
func (r *Repository) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	unlock := r.lock(key)
	defer unlock()

	current, _, err := r.store.Read(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	if err := r.store.Write(ctx, key, next); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Read returns the raw value of key.
func (r *Repository) Read(ctx context.Context, key string) ([]byte, bool, error) {
	v, found, err := r.store.Read(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, found, nil
}

// Remove deletes key.
func (r *Repository) Remove(ctx context.Context, key string) error {
	unlock := r.lock(key)
	defer unlock()
	if err := r.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Clear removes every application key.
func (r *Repository) Clear(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := r.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// LoadList decodes the JSON array stored under key. A missing key yields an
// empty list.
func LoadList[T any](ctx context.Context, r *Repository, key string) ([]T, error) {
	raw, found, err := r.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found || len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// UpdateList applies fn to the list stored under key and persists the result
// atomically with respect to other updates of the same key.
func UpdateList[T any](ctx context.Context, r *Repository, key string, fn func([]T) ([]T, error)) error {
	return r.Update(ctx, key, func(current []byte) ([]byte, error) {
		list := []T{}
		if len(current) > 0 {
			if err := json.Unmarshal(current, &list); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		next, err := fn(list)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		return json.Marshal(next)
	})
}

// LoadValue decodes the JSON document stored under key into a T. found is
// false when the key is missing.
func LoadValue[T any](ctx context.Context, r *Repository, key string) (value T, found bool, err error) {
	raw, found, err := r.Read(ctx, key)
	if err != nil || !found {
		return value, false, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, true, nil
}

// SaveValue stores v as JSON under key.
func SaveValue[T any](ctx context.Context, r *Repository, key string, v T) error {
	return r.Update(ctx, key, func([]byte) ([]byte, error) {
		return json.Marshal(v)
	})
}

// UpdateValue applies fn to the document stored under key. fn receives the
// zero value when the key is missing.
func UpdateValue[T any](ctx context.Context, r *Repository, key string, fn func(T) (T, error)) error {
	return r.Update(ctx, key, func(current []byte) ([]byte, error) {
		var v T
		if len(current) > 0 {
			if err := json.Unmarshal(current, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		next, err := fn(v)
		if err != nil {
			return nil, err
		}
		return json.Marshal(next)
	})
}
