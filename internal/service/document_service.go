package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/docforge/docforge/internal/catalog"
	"github.com/docforge/docforge/internal/chunker"
	"github.com/docforge/docforge/internal/index"
	"github.com/docforge/docforge/internal/model"
	"github.com/docforge/docforge/internal/session"
)

// DocumentService keeps the catalog and the vector index consistent for
// reads, updates and deletes of individual documents.
type DocumentService struct {
	catalog  *catalog.Catalog
	index    *index.Index
	sessions *session.Manager
}

func NewDocumentService(cat *catalog.Catalog, idx *index.Index, sessions *session.Manager) *DocumentService {
	return &DocumentService{catalog: cat, index: idx, sessions: sessions}
}

func (s *DocumentService) List(ctx context.Context) ([]model.DocumentSummary, int) {
	summaries := s.catalog.ListSession()
	indexed, err := s.index.Count(ctx)
	if err != nil {
		logutil.GetLogger(ctx).Error("index count failed", zap.Error(err))
		indexed = 0
	}
	return summaries, indexed
}

func (s *DocumentService) Get(ctx context.Context, id string) (model.Document, error) {
	return s.catalog.Get(ctx, id)
}

// Update replaces the document content, then re-indexes it: all old chunks
// are deleted before the fresh ones are added so the index never serves a
// mix of both versions. Index failures degrade retrieval but do not undo
// the catalog update.
func (s *DocumentService) Update(ctx context.Context, id, content string) error {
	doc, err := s.catalog.Update(ctx, id, content)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx).With(zap.String("doc_id", id))
	removed, err := s.index.DeleteByDocument(ctx, id)
	if err != nil {
		logger.Error("failed to remove old chunks", zap.Error(err))
	} else {
		logger.Info("old chunks removed", zap.Int("chunks", removed))
	}
	chunks := chunker.Split(content, chunker.DefaultWindow)
	if err := s.index.IndexChunks(ctx, doc.ID, doc.SessionID, doc.Filename, chunks, true); err != nil {
		logger.Warn("some updated chunks were not indexed", zap.Error(err))
	}
	return nil
}

// Delete removes the document and its chunks; a failing chunk deletion is
// logged but does not block the catalog removal.
func (s *DocumentService) Delete(ctx context.Context, id string) (model.Document, int, error) {
	doc, remaining, err := s.catalog.Delete(ctx, id)
	if err != nil {
		return model.Document{}, 0, err
	}
	logger := logutil.GetLogger(ctx).With(zap.String("doc_id", id))
	removed, err := s.index.DeleteByDocument(ctx, id)
	if err != nil {
		logger.Error("failed to remove chunks", zap.Error(err))
	} else {
		logger.Info("document deleted", zap.Int("chunks_removed", removed))
	}
	return doc, remaining, nil
}

// ClearAll wipes the catalog and drops the whole index. The session id is
// kept; the session view is empty afterwards as a consequence of the wipe.
func (s *DocumentService) ClearAll(ctx context.Context) error {
	if err := s.catalog.ClearAll(ctx); err != nil {
		return err
	}
	return s.index.Drop(ctx)
}

type SessionInfo struct {
	SessionID     string `json:"session_id"`
	DocCount      int    `json:"documents_in_session"`
	IndexedChunks int    `json:"indexed_chunks"`
}

func (s *DocumentService) SessionInfo(ctx context.Context) SessionInfo {
	indexed, err := s.index.Count(ctx)
	if err != nil {
		logutil.GetLogger(ctx).Error("index count failed", zap.Error(err))
	}
	return SessionInfo{
		SessionID:     s.sessions.Current(),
		DocCount:      s.catalog.SessionCount(),
		IndexedChunks: indexed,
	}
}

type Health struct {
	SessionID     string `json:"session_id"`
	SessionDocs   int    `json:"session_documents"`
	TotalDocs     int    `json:"total_documents_in_storage"`
	IndexedChunks int    `json:"indexed_chunks"`
}

func (s *DocumentService) Health(ctx context.Context) Health {
	indexed, err := s.index.Count(ctx)
	if err != nil {
		logutil.GetLogger(ctx).Error("index count failed", zap.Error(err))
	}
	return Health{
		SessionID:     s.sessions.Current(),
		SessionDocs:   s.catalog.SessionCount(),
		TotalDocs:     s.catalog.TotalCount(),
		IndexedChunks: indexed,
	}
}
