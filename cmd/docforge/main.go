package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/docforge/docforge/internal/catalog"
	"github.com/docforge/docforge/internal/config"
	"github.com/docforge/docforge/internal/embedding"
	"github.com/docforge/docforge/internal/extract"
	"github.com/docforge/docforge/internal/handler"
	"github.com/docforge/docforge/internal/index"
	_ "github.com/docforge/docforge/internal/index/memory"
	_ "github.com/docforge/docforge/internal/index/pgvector"
	"github.com/docforge/docforge/internal/job"
	"github.com/docforge/docforge/internal/middleware"
	"github.com/docforge/docforge/internal/schedule"
	"github.com/docforge/docforge/internal/service"
	"github.com/docforge/docforge/internal/session"
	"github.com/docforge/docforge/internal/snapshot"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "docforge",
		Short: "docforge document portal server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run docforge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewManager()
	store, err := snapshot.New(cfg.Snapshot.Type, cfg.Snapshot.Data)
	if err != nil {
		return fmt.Errorf("init snapshot store: %w", err)
	}
	cat := catalog.New(sessions, store)
	if err := cat.Load(ctx); err != nil {
		// A damaged snapshot must not block startup; the catalog starts
		// empty and the next flush rewrites it.
		logutil.GetLogger(ctx).Warn("catalog snapshot restore failed", zap.Error(err))
	}

	embedder, err := embedding.New(cfg.Embedding.Provider, cfg.Embedding.Data)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}
	backend, err := index.NewBackend(cfg.Index.Backend, cfg.Index.Data, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("init index backend: %w", err)
	}
	idx := index.New(backend, embedder)

	logutil.GetLogger(ctx).Info("starting server",
		zap.Int("port", cfg.Port),
		zap.String("session_id", sessions.Current()),
		zap.String("snapshot_store", cfg.Snapshot.Type),
		zap.String("index_backend", cfg.Index.Backend),
		zap.String("embedding_provider", embedder.Name()),
		zap.Int("upload_workers", cfg.UploadWorkers),
	)

	ingestService := service.NewIngestService(cat, idx, sessions, extract.New(), cfg.UploadWorkers)
	documentService := service.NewDocumentService(cat, idx, sessions)
	chatService := service.NewChatService(idx)

	deps := handler.RouterDeps{
		Upload:        handler.NewUploadHandler(ingestService, documentService),
		Documents:     handler.NewDocumentHandler(documentService),
		Chat:          handler.NewChatHandler(chatService),
		Admin:         handler.NewAdminHandler(documentService, ingestService, sessions),
		ChatRateLimit: time.Duration(cfg.ChatRateLimitMS) * time.Millisecond,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewSnapshotFlushJob(cat), cfg.SnapshotFlushCron); err != nil {
		return fmt.Errorf("schedule snapshot flush: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	if err := cat.Flush(context.Background()); err != nil {
		logutil.GetLogger(context.Background()).Error("final snapshot write failed", zap.Error(err))
	}
	return nil
}
