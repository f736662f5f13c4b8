package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docforge/docforge/internal/middleware"
)

type RouterDeps struct {
	Upload    *UploadHandler
	Documents *DocumentHandler
	Chat      *ChatHandler
	Admin     *AdminHandler
	// ChatRateLimit throttles repeat chat queries per client; zero disables.
	ChatRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/upload", deps.Upload.Upload)
	api.POST("/upload-multiple", deps.Upload.UploadMultiple)

	api.GET("/documents", deps.Documents.List)
	api.GET("/documents/:id", deps.Documents.Get)
	api.PUT("/documents/:id", deps.Documents.Update)
	api.DELETE("/documents/:id", deps.Documents.Delete)

	api.POST("/chat", middleware.RateLimit(deps.ChatRateLimit), deps.Chat.Chat)

	api.GET("/health", deps.Admin.Health)
	api.GET("/session", deps.Admin.Session)
	api.POST("/session/reset", deps.Admin.SessionReset)
	api.POST("/clear-all", deps.Admin.ClearAll)
}
