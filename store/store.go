// Package store is the key/value persistence port shared by the cart,
// the marketplace logs and the session mirror. Values are JSON documents.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys of the persisted state layout.
const (
	KeyCart          = "serviceCart"
	KeyBookings      = "bookings"
	KeyContacts      = "contacts"
	KeyUsers         = "users"
	KeySession       = "session"
	KeyLegacyUser    = "user"
	KeyLegacyToken   = "token"
	KeyAvailability  = "availability"
	KeyReviews       = "reviews"
	KeyNotifications = "notifications"
)

// KV is a string-keyed byte store.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value at key into dst. It reports false, leaving dst
// untouched, when the key is absent.
func GetJSON(ctx context.Context, kv KV, key string, dst any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

type prefixed struct {
	kv     KV
	prefix string
}

// WithPrefix scopes every key of kv under prefix.
func WithPrefix(kv KV, prefix string) KV {
	return &prefixed{kv: kv, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.kv.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.prefix+key)
}

// ClientNamespace is the storage of one signed-in client.
func ClientNamespace(kv KV, userID int64) KV {
	return WithPrefix(kv, fmt.Sprintf("client:%d:", userID))
}

// ProviderNamespace is the storage owned by one provider.
func ProviderNamespace(kv KV, providerID int64) KV {
	return WithPrefix(kv, fmt.Sprintf("provider:%d:", providerID))
}
