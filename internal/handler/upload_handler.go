package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docforge/docforge/internal/pkg/response"
	"github.com/docforge/docforge/internal/service"
)

type UploadHandler struct {
	ingest    *service.IngestService
	documents *service.DocumentService
}

func NewUploadHandler(ingest *service.IngestService, documents *service.DocumentService) *UploadHandler {
	return &UploadHandler{ingest: ingest, documents: documents}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No file selected")
		return
	}
	data, err := readMultipartFile(fileHeader)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	result, err := h.ingest.IngestFile(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"filename":        result.Filename,
		"document_id":     result.DocumentID,
		"session_id":      result.SessionID,
		"size":            result.Size,
		"chunks":          result.Chunks,
		"processing_time": fmt.Sprintf("%.2fs", result.Duration.Seconds()),
		"message":         fmt.Sprintf("%s uploaded successfully!\nDocument is now available for viewing and editing.", result.Filename),
	})
}

func (h *UploadHandler) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, http.StatusBadRequest, "No files selected")
		return
	}
	files := make([]service.File, 0, len(headers))
	for _, header := range headers {
		data, err := readMultipartFile(header)
		if err != nil {
			response.Error(c, http.StatusBadRequest, fmt.Sprintf("failed to read uploaded file: %s", header.Filename))
			return
		}
		files = append(files, service.File{Filename: header.Filename, Data: data})
	}

	batch := h.ingest.IngestFiles(c.Request.Context(), files)
	info := h.documents.SessionInfo(c.Request.Context())
	successes := make([]gin.H, 0, len(batch.Successful))
	for _, result := range batch.Successful {
		successes = append(successes, gin.H{
			"filename": result.Filename,
			"id":       result.DocumentID,
			"size":     result.Size,
			"preview":  result.Preview,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            batch.Status,
		"total_files":       batch.Total,
		"successful":        len(batch.Successful),
		"failed":            len(batch.Failed),
		"processing_time":   fmt.Sprintf("%.2fs", batch.Duration.Seconds()),
		"session_id":        info.SessionID,
		"session_documents": info.DocCount,
		"successful_files":  successes,
		"failed_files":      batch.Failed,
		"message":           batch.Message,
	})
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
