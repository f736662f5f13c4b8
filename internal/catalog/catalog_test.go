package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/docforge/docforge/internal/model"
	appErr "github.com/docforge/docforge/internal/pkg/errors"
	"github.com/docforge/docforge/internal/session"
	"github.com/docforge/docforge/internal/snapshot"
)

func newTestCatalog(t *testing.T) (*Catalog, *session.Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	store, err := snapshot.New("local", map[string]interface{}{"path": path})
	if err != nil {
		t.Fatalf("new snapshot store: %v", err)
	}
	sessions := session.NewManager()
	return New(sessions, store), sessions, path
}

func testDoc(id, sessionID, content string) *model.Document {
	return &model.Document{
		ID:         id,
		Filename:   id + ".txt",
		Content:    content,
		UploadedAt: time.Now(),
		Size:       len(content),
		FileType:   model.FileTypeText,
		SessionID:  sessionID,
	}
}

func TestCatalog_AddGet(t *testing.T) {
	ctx := context.Background()
	c, sessions, _ := newTestCatalog(t)
	c.Add(ctx, testDoc("d1", sessions.Current(), "hello world"))

	doc, err := c.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Content != "hello world" || doc.Size != 11 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if _, err := c.Get(ctx, "missing"); !errors.Is(err, appErr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_ListSessionPreview(t *testing.T) {
	ctx := context.Background()
	c, sessions, _ := newTestCatalog(t)
	long := ""
	for len(long) < 150 {
		long += "abcdefghij"
	}
	c.Add(ctx, testDoc("d1", sessions.Current(), long))
	c.Add(ctx, testDoc("d2", "other-session", "not visible"))

	summaries := c.ListSession()
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if len(summaries[0].Preview) != 103 || summaries[0].Preview[100:] != "..." {
		t.Fatalf("unexpected preview: %q", summaries[0].Preview)
	}
}

func TestCatalog_UpdateRecomputesSize(t *testing.T) {
	ctx := context.Background()
	c, sessions, _ := newTestCatalog(t)
	c.Add(ctx, testDoc("d1", sessions.Current(), "old content"))

	updated, err := c.Update(ctx, "d1", "new text")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "new text" || updated.Size != 8 {
		t.Fatalf("unexpected updated doc: %+v", updated)
	}
	got, _ := c.Get(ctx, "d1")
	if got.Content != "new text" || got.Size != 8 {
		t.Fatalf("update not visible via get: %+v", got)
	}
}

func TestCatalog_UpdateOutsideSession(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCatalog(t)
	c.Add(ctx, testDoc("d1", "stale-session", "content"))

	if _, err := c.Update(ctx, "d1", "x"); !errors.Is(err, appErr.ErrNotInSession) {
		t.Fatalf("expected ErrNotInSession, got %v", err)
	}
	if _, err := c.Update(ctx, "absent", "x"); !errors.Is(err, appErr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_DeleteScopedToSession(t *testing.T) {
	ctx := context.Background()
	c, sessions, _ := newTestCatalog(t)
	c.Add(ctx, testDoc("d1", sessions.Current(), "a"))
	c.Add(ctx, testDoc("d2", sessions.Current(), "b"))
	c.Add(ctx, testDoc("d3", "stale-session", "c"))

	removed, remaining, err := c.Delete(ctx, "d1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != "d1" || remaining != 1 {
		t.Fatalf("removed=%s remaining=%d", removed.ID, remaining)
	}
	if _, err := c.Get(ctx, "d1"); !errors.Is(err, appErr.ErrNotFound) {
		t.Fatalf("deleted document still readable: %v", err)
	}
	if _, _, err := c.Delete(ctx, "d3"); !errors.Is(err, appErr.ErrNotInSession) {
		t.Fatalf("expected ErrNotInSession, got %v", err)
	}
}

func TestCatalog_SessionScopingAfterReset(t *testing.T) {
	ctx := context.Background()
	c, sessions, _ := newTestCatalog(t)
	c.Add(ctx, testDoc("d1", sessions.Current(), "session A doc"))

	sessions.Reset()
	if got := c.ListSession(); len(got) != 0 {
		t.Fatalf("session view should be empty after reset, got %d", len(got))
	}
	// Direct reads remain session-agnostic.
	doc, err := c.Get(ctx, "d1")
	if err != nil || doc.ID != "d1" {
		t.Fatalf("get after reset: %v", err)
	}
}

func TestCatalog_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, sessions, path := newTestCatalog(t)
	c.Add(ctx, testDoc("d1", sessions.Current(), "persisted"))
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	store, err := snapshot.New("local", map[string]interface{}{"path": path})
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	restored := New(session.NewManager(), store)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored.TotalCount() != 1 {
		t.Fatalf("restored %d docs, want 1", restored.TotalCount())
	}
	// The restoring process has a fresh session, so the old doc is
	// outside its session view but still readable.
	if got := restored.ListSession(); len(got) != 0 {
		t.Fatalf("restored session view should be empty, got %d", len(got))
	}
	if _, err := restored.Get(ctx, "d1"); err != nil {
		t.Fatalf("get restored doc: %v", err)
	}
}

func TestCatalog_ClearAll(t *testing.T) {
	ctx := context.Background()
	c, sessions, _ := newTestCatalog(t)
	before := sessions.Current()
	c.Add(ctx, testDoc("d1", before, "a"))
	c.Add(ctx, testDoc("d2", "other", "b"))

	if err := c.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if c.TotalCount() != 0 || c.SessionCount() != 0 {
		t.Fatal("catalog not empty after clear")
	}
	if sessions.Current() != before {
		t.Fatal("clear all must not rotate the session id")
	}
}
