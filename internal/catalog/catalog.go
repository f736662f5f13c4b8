// Package catalog is the authoritative in-memory store of document
// records. There is one store; the "session view" is a projection of it
// filtered by the current session id, so the two views cannot drift apart.
// All mutation goes through one mutex: multi-file ingestion workers
// serialise their writes here.
package catalog

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docforge/docforge/internal/model"
	appErr "github.com/docforge/docforge/internal/pkg/errors"
	"github.com/docforge/docforge/internal/session"
	"github.com/docforge/docforge/internal/snapshot"
)

type Catalog struct {
	mu       sync.Mutex
	docs     []*model.Document
	byID     map[string]*model.Document
	sessions *session.Manager
	store    snapshot.Store
}

func New(sessions *session.Manager, store snapshot.Store) *Catalog {
	return &Catalog{
		byID:     make(map[string]*model.Document),
		sessions: sessions,
		store:    store,
	}
}

// Load restores the all-time store from the last snapshot. Documents from
// earlier runs keep their original session ids, so they stay out of the
// current session view.
func (c *Catalog) Load(ctx context.Context) error {
	data, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	var docs []*model.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = docs
	c.byID = make(map[string]*model.Document, len(docs))
	for _, doc := range docs {
		c.byID[doc.ID] = doc
	}
	logutil.GetLogger(ctx).Info("catalog restored from snapshot", zap.Int("documents", len(docs)))
	return nil
}

// Add appends a document without persisting. Batch ingestion adds every
// success first and snapshots once via Flush.
func (c *Catalog) Add(ctx context.Context, doc *model.Document) {
	_ = ctx
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = append(c.docs, doc)
	c.byID[doc.ID] = doc
}

// Flush writes the full catalog snapshot.
func (c *Catalog) Flush(ctx context.Context) error {
	c.mu.Lock()
	data, err := json.Marshal(c.docs)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.store.Save(ctx, data)
}

// flush persists and only logs failures: a snapshot write error never rolls
// back the in-memory mutation that triggered it.
func (c *Catalog) flush(ctx context.Context) {
	if err := c.Flush(ctx); err != nil {
		logutil.GetLogger(ctx).Error("catalog snapshot write failed", zap.Error(err))
	}
}

// Get looks up a document in the session view first, then the all-time
// store. Reads are deliberately session-agnostic so documents from earlier
// sessions stay reachable by id.
func (c *Catalog) Get(ctx context.Context, id string) (model.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.byID[id]
	if !ok {
		return model.Document{}, appErr.ErrNotFound
	}
	if doc.SessionID != c.sessions.Current() {
		logutil.GetLogger(ctx).Debug("document served from outside current session",
			zap.String("doc_id", id), zap.String("session_id", doc.SessionID))
	}
	return *doc, nil
}

// ListSession returns summaries of the current session's documents in
// upload order.
func (c *Catalog) ListSession() []model.DocumentSummary {
	current := c.sessions.Current()
	c.mu.Lock()
	defer c.mu.Unlock()
	summaries := make([]model.DocumentSummary, 0)
	for _, doc := range c.docs {
		if doc.SessionID == current {
			summaries = append(summaries, doc.Summary())
		}
	}
	return summaries
}

// Update replaces a document's content. Only documents in the current
// session view are updatable; a document that exists all-time but belongs
// to another session reports ErrNotInSession so callers can tell the two
// cases apart.
func (c *Catalog) Update(ctx context.Context, id, content string) (model.Document, error) {
	c.mu.Lock()
	doc, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return model.Document{}, appErr.ErrNotFound
	}
	if doc.SessionID != c.sessions.Current() {
		c.mu.Unlock()
		return model.Document{}, appErr.ErrNotInSession
	}
	doc.Content = content
	doc.Size = len(content)
	updated := *doc
	c.mu.Unlock()
	c.flush(ctx)
	return updated, nil
}

// Delete removes a document from the store; like Update it is scoped to
// the session view. It returns the removed document and the number of
// session documents left.
func (c *Catalog) Delete(ctx context.Context, id string) (model.Document, int, error) {
	current := c.sessions.Current()
	c.mu.Lock()
	doc, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return model.Document{}, 0, appErr.ErrNotFound
	}
	if doc.SessionID != current {
		c.mu.Unlock()
		return model.Document{}, 0, appErr.ErrNotInSession
	}
	removed := *doc
	delete(c.byID, id)
	kept := c.docs[:0]
	remaining := 0
	for _, d := range c.docs {
		if d.ID == id {
			continue
		}
		kept = append(kept, d)
		if d.SessionID == current {
			remaining++
		}
	}
	c.docs = kept
	c.mu.Unlock()
	c.flush(ctx)
	return removed, remaining, nil
}

// ClearAll empties the all-time store; the session view becomes empty as a
// consequence. The session id itself is untouched.
func (c *Catalog) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	c.docs = nil
	c.byID = make(map[string]*model.Document)
	c.mu.Unlock()
	return c.Flush(ctx)
}

func (c *Catalog) SessionCount() int {
	current := c.sessions.Current()
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, doc := range c.docs {
		if doc.SessionID == current {
			count++
		}
	}
	return count
}

func (c *Catalog) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}
