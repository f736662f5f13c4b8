package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docforge/docforge/internal/pkg/response"
	"github.com/docforge/docforge/internal/service"
	"github.com/docforge/docforge/internal/session"
)

type AdminHandler struct {
	documents *service.DocumentService
	ingest    *service.IngestService
	sessions  *session.Manager
}

func NewAdminHandler(documents *service.DocumentService, ingest *service.IngestService, sessions *session.Manager) *AdminHandler {
	return &AdminHandler{documents: documents, ingest: ingest, sessions: sessions}
}

func (h *AdminHandler) Health(c *gin.Context) {
	health := h.documents.Health(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":                     "healthy",
		"timestamp":                  time.Now().Format(time.RFC3339),
		"session_id":                 health.SessionID,
		"session_documents":          health.SessionDocs,
		"total_documents_in_storage": health.TotalDocs,
		"indexed_chunks":             health.IndexedChunks,
		"upload_workers":             h.ingest.Workers(),
	})
}

func (h *AdminHandler) Session(c *gin.Context) {
	info := h.documents.SessionInfo(c.Request.Context())
	response.Success(c, gin.H{
		"session_id":           info.SessionID,
		"session_started":      h.sessions.StartedAt().Format(time.RFC3339),
		"documents_in_session": info.DocCount,
		"indexed_chunks":       info.IndexedChunks,
	})
}

func (h *AdminHandler) SessionReset(c *gin.Context) {
	id := h.sessions.Reset()
	response.Success(c, gin.H{
		"session_id": id,
		"message":    "New session started",
	})
}

func (h *AdminHandler) ClearAll(c *gin.Context) {
	if err := h.documents.ClearAll(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "All data cleared"})
}
