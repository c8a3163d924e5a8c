// Package persistence provides the string-valued key-value storage that holds
// each client's session snapshot, in the manner of browser local storage.
package persistence

import (
	"context"
	"fmt"
	"strings"
)

// Store is a namespaced string key-value store. Get reports a missing key with
// ok=false and a nil error. Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, namespace, key string) (value string, ok bool, err error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}

// ClientStorage binds a Store to one client namespace and exposes the
// GetItem/SetItem/RemoveItem surface the session manager consumes.
type ClientStorage struct {
	store     Store
	namespace string
}

// Namespace returns the storage view of a single client.
func Namespace(store Store, namespace string) *ClientStorage {
	return &ClientStorage{store: store, namespace: strings.TrimSpace(namespace)}
}

// GetItem returns the value stored under key.
func (c *ClientStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := c.check(key); err != nil {
		return "", false, err
	}
	return c.store.Get(ctx, c.namespace, key)
}

// SetItem stores value under key, replacing any previous value.
func (c *ClientStorage) SetItem(ctx context.Context, key, value string) error {
	if err := c.check(key); err != nil {
		return err
	}
	return c.store.Set(ctx, c.namespace, key, value)
}

// RemoveItem deletes key.
func (c *ClientStorage) RemoveItem(ctx context.Context, key string) error {
	if err := c.check(key); err != nil {
		return err
	}
	return c.store.Delete(ctx, c.namespace, key)
}

func (c *ClientStorage) check(key string) error {
	if c == nil || c.store == nil {
		return fmt.Errorf("client storage not configured")
	}
	if c.namespace == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
