// Package snapshot persists the document catalog as a single opaque blob,
// overwritten wholesale on every write. Backends self-register and are
// selected by config.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type Store interface {
	// Save overwrites the whole snapshot.
	Save(ctx context.Context, data []byte) error
	// Load returns the last snapshot, or nil when none exists yet.
	Load(ctx context.Context) ([]byte, error)
}

type Factory func(args interface{}) (Store, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func New(name string, args interface{}) (Store, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("snapshot.type is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported snapshot store type: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("snapshot store config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode snapshot config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode snapshot config: %w", err)
	}
	return nil
}
