// Package index is the embedding index adapter: it owns chunk ids and
// metadata, delegates text-to-vector conversion to an embedding provider,
// and stores vectors in a pluggable backend.
package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docforge/docforge/internal/embedding"
	"github.com/docforge/docforge/internal/model"
)

// ErrUnavailable is returned by Query when the index holds no chunks or is
// not initialised.
var ErrUnavailable = errors.New("vector index unavailable")

// Item is one indexed chunk as stored by a backend.
type Item struct {
	ID     string
	Text   string
	Vector []float32
	Meta   model.ChunkMeta
}

// Backend is the raw vector store: it sees vectors, never text queries.
type Backend interface {
	Upsert(ctx context.Context, items []Item) error
	DeleteByDoc(ctx context.Context, docID string) (int, error)
	Search(ctx context.Context, vector []float32, topK int) ([]model.ChunkMatch, error)
	Count(ctx context.Context) (int, error)
	Drop(ctx context.Context) error
}

type Factory func(args interface{}, dimension int) (Backend, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewBackend(name string, args interface{}, dimension int) (Backend, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("index.backend is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported index backend: %s", name)
	}
	return factory(args, dimension)
}

// Index pairs an embedding provider with a vector backend. Every mutation
// bumps a generation counter so answer caches keyed on it miss after the
// indexed content changes.
type Index struct {
	backend Backend
	emb     embedding.Embedder
	gen     atomic.Uint64
}

func New(backend Backend, emb embedding.Embedder) *Index {
	return &Index{backend: backend, emb: emb}
}

// IndexChunks embeds and stores every chunk of a document. A failing chunk
// is skipped, not fatal: the document may end up with fewer indexed chunks
// than expected, and the joined error reports what was skipped.
func (x *Index) IndexChunks(ctx context.Context, docID, sessionID, source string, chunks []string, updated bool) error {
	logger := logutil.GetLogger(ctx).With(zap.String("doc_id", docID))
	var errs []error
	for idx, chunk := range chunks {
		item := Item{
			ID:   ChunkID(docID, idx, updated),
			Text: chunk,
			Meta: model.ChunkMeta{
				Source:    source,
				DocID:     docID,
				SessionID: sessionID,
				Position:  idx,
				Updated:   updated,
			},
		}
		if updated {
			item.Meta.UpdateTime = time.Now().UnixMilli()
		}
		vector, err := x.emb.Embed(ctx, chunk)
		if err != nil {
			logger.Error("embed chunk failed, skipping", zap.Int("chunk", idx), zap.Error(err))
			errs = append(errs, fmt.Errorf("chunk %d: %w", idx, err))
			continue
		}
		item.Vector = vector
		if err := x.backend.Upsert(ctx, []Item{item}); err != nil {
			logger.Error("store chunk failed, skipping", zap.Int("chunk", idx), zap.Error(err))
			errs = append(errs, fmt.Errorf("chunk %d: %w", idx, err))
		}
	}
	x.gen.Add(1)
	return errors.Join(errs...)
}

// ChunkID derives the deterministic id of a chunk. Update-path ids carry a
// suffix so they never collide with the ids they replace.
func ChunkID(docID string, idx int, updated bool) string {
	id := fmt.Sprintf("%s_chunk_%d", docID, idx)
	if updated {
		id += "_updated"
	}
	return id
}

func (x *Index) DeleteByDocument(ctx context.Context, docID string) (int, error) {
	removed, err := x.backend.DeleteByDoc(ctx, docID)
	x.gen.Add(1)
	return removed, err
}

// Generation increments on every mutation of the index.
func (x *Index) Generation() uint64 {
	return x.gen.Load()
}

// Query embeds the text and returns the topK closest chunks, best first.
func (x *Index) Query(ctx context.Context, text string, topK int) ([]model.ChunkMatch, error) {
	count, err := x.backend.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUnavailable
	}
	vector, err := x.emb.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return x.backend.Search(ctx, vector, topK)
}

func (x *Index) Count(ctx context.Context) (int, error) {
	return x.backend.Count(ctx)
}

// Drop removes every indexed chunk.
func (x *Index) Drop(ctx context.Context) error {
	err := x.backend.Drop(ctx)
	x.gen.Add(1)
	return err
}
