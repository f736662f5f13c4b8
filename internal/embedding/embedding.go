// Package embedding provides the text-to-vector providers used by the
// vector index. Providers self-register and are selected by config.
package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Factory func(args interface{}) (Embedder, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func New(name string, args interface{}) (Embedder, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("embedding.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported embedding provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode embedding config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode embedding config: %w", err)
	}
	return nil
}
