package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/docforge/docforge/internal/catalog"
	"github.com/docforge/docforge/internal/chunker"
	"github.com/docforge/docforge/internal/extract"
	"github.com/docforge/docforge/internal/index"
	"github.com/docforge/docforge/internal/model"
	appErr "github.com/docforge/docforge/internal/pkg/errors"
	"github.com/docforge/docforge/internal/session"
)

const DefaultWorkers = 4

// IngestService runs the extraction-chunk-index pipeline for uploaded
// files, alone or as a bounded-parallel batch.
type IngestService struct {
	catalog   *catalog.Catalog
	index     *index.Index
	sessions  *session.Manager
	extractor extract.Extractor
	workers   int
}

func NewIngestService(cat *catalog.Catalog, idx *index.Index, sessions *session.Manager, extractor extract.Extractor, workers int) *IngestService {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &IngestService{
		catalog:   cat,
		index:     idx,
		sessions:  sessions,
		extractor: extractor,
		workers:   workers,
	}
}

func (s *IngestService) Workers() int {
	return s.workers
}

type IngestResult struct {
	Filename   string        `json:"filename"`
	DocumentID string        `json:"document_id"`
	SessionID  string        `json:"session_id"`
	Size       int           `json:"size"`
	Chunks     int           `json:"chunks"`
	Duration   time.Duration `json:"-"`
	Preview    string        `json:"preview"`
}

type File struct {
	Filename string
	Data     []byte
}

type BatchFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type BatchResult struct {
	Status     string
	Total      int
	Successful []*IngestResult
	Failed     []BatchFailure
	Duration   time.Duration
	Message    string
}

// IngestFile runs the single-file path and persists the catalog snapshot.
func (s *IngestService) IngestFile(ctx context.Context, filename string, data []byte) (*IngestResult, error) {
	result, err := s.processFile(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.Flush(ctx); err != nil {
		logutil.GetLogger(ctx).Error("catalog snapshot write failed", zap.Error(err))
	}
	return result, nil
}

// IngestFiles processes the batch on a bounded worker pool. A failing file
// never aborts its siblings; results come back in submission order and the
// catalog is snapshotted once at the end.
func (s *IngestService) IngestFiles(ctx context.Context, files []File) *BatchResult {
	start := time.Now()
	logger := logutil.GetLogger(ctx).With(
		zap.Int("files", len(files)),
		zap.Int("workers", s.workers),
		zap.String("session_id", s.sessions.Current()),
	)
	logger.Info("multi-file upload started")

	results := make([]*IngestResult, len(files))
	failures := make([]error, len(files))

	var group errgroup.Group
	group.SetLimit(s.workers)
	for i := range files {
		i := i
		group.Go(func() error {
			result, err := s.processFile(ctx, files[i].Filename, files[i].Data)
			results[i] = result
			failures[i] = err
			return nil
		})
	}
	_ = group.Wait()

	batch := &BatchResult{Total: len(files)}
	for i := range files {
		if failures[i] != nil {
			logger.Warn("file ingestion failed",
				zap.String("filename", files[i].Filename), zap.Error(failures[i]))
			batch.Failed = append(batch.Failed, BatchFailure{
				Filename: files[i].Filename,
				Error:    failures[i].Error(),
			})
			continue
		}
		batch.Successful = append(batch.Successful, results[i])
	}

	if len(batch.Successful) > 0 {
		if err := s.catalog.Flush(ctx); err != nil {
			logger.Error("catalog snapshot write failed", zap.Error(err))
		}
	}
	batch.Duration = time.Since(start)
	batch.Status = batchStatus(len(batch.Successful), len(batch.Failed))
	batch.Message = batchMessage(len(batch.Successful), len(batch.Failed))
	logger.Info("multi-file upload finished",
		zap.Int("successful", len(batch.Successful)),
		zap.Int("failed", len(batch.Failed)),
		zap.Duration("duration", batch.Duration),
	)
	return batch
}

// processFile is the per-file pipeline: extract, reject empty text, record
// in the catalog, index chunks. It does not persist the snapshot.
func (s *IngestService) processFile(ctx context.Context, filename string, data []byte) (*IngestResult, error) {
	start := time.Now()
	logger := logutil.GetLogger(ctx).With(zap.String("filename", filename))

	text, fileType, err := s.extractor.Extract(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", appErr.ErrEmptyContent, filename)
	}

	doc := &model.Document{
		ID:         newID(),
		Filename:   filename,
		Content:    text,
		UploadedAt: time.Now(),
		Size:       len(text),
		FileType:   fileType,
		SessionID:  s.sessions.Current(),
	}
	chunks := chunker.Split(text, chunker.DefaultWindow)
	s.catalog.Add(ctx, doc)

	// Best effort: a document may end up with fewer indexed chunks than
	// expected, which degrades retrieval but never loses the document.
	if err := s.index.IndexChunks(ctx, doc.ID, doc.SessionID, doc.Filename, chunks, false); err != nil {
		logger.Warn("some chunks were not indexed", zap.Error(err))
	}

	duration := time.Since(start)
	logger.Info("file processed",
		zap.String("doc_id", doc.ID),
		zap.Int("size", doc.Size),
		zap.Int("chunks", len(chunks)),
		zap.Duration("duration", duration),
	)
	return &IngestResult{
		Filename:   filename,
		DocumentID: doc.ID,
		SessionID:  doc.SessionID,
		Size:       doc.Size,
		Chunks:     len(chunks),
		Duration:   duration,
		Preview:    model.Preview(text),
	}, nil
}

func batchStatus(successful, failed int) string {
	switch {
	case successful > 0 && failed > 0:
		return "partial"
	case successful > 0:
		return "success"
	default:
		return "error"
	}
}

func batchMessage(successful, failed int) string {
	if successful == 0 {
		return "No files were uploaded successfully"
	}
	msg := fmt.Sprintf("Successfully uploaded %d file(s) to current session", successful)
	if failed > 0 {
		msg += fmt.Sprintf(", %d failed", failed)
	}
	return msg
}
