package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docforge/docforge/internal/pkg/response"
	"github.com/docforge/docforge/internal/service"
)

type DocumentHandler struct {
	documents *service.DocumentService
}

func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func (h *DocumentHandler) List(c *gin.Context) {
	summaries, indexed := h.documents.List(c.Request.Context())
	info := h.documents.SessionInfo(c.Request.Context())
	response.Success(c, gin.H{
		"count":                len(summaries),
		"session_id":           info.SessionID,
		"total_indexed_chunks": indexed,
		"documents":            summaries,
	})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"document": doc})
}

type documentUpdateRequest struct {
	Content string `json:"content"`
}

func (h *DocumentHandler) Update(c *gin.Context) {
	var req documentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.documents.Update(c.Request.Context(), c.Param("id"), req.Content); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Document updated successfully"})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	doc, remaining, err := h.documents.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message":                 fmt.Sprintf("Document '%s' deleted successfully", doc.Filename),
		"session_documents_count": remaining,
	})
}
