package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/docforge/docforge/internal/pkg/errors"
	"github.com/docforge/docforge/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrNotInSession):
		response.Error(c, http.StatusNotFound, "Document found but not in current session. Please re-upload it.")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, "Document not found")
	case errors.Is(err, appErr.ErrEmptyContent):
		response.Error(c, http.StatusBadRequest, "No text extracted from file")
	case errors.Is(err, appErr.ErrExtraction):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "invalid request")
	default:
		response.Error(c, http.StatusInternalServerError, "internal error")
	}
}
