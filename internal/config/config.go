package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port              int              `json:"port"`
	LogConfig         logger.LogConfig `json:"log_config"`
	UploadWorkers     int              `json:"upload_workers"`
	CORSOrigins       []string         `json:"cors_origins"`
	ChatRateLimitMS   int              `json:"chat_rate_limit_ms"`
	SnapshotFlushCron string           `json:"snapshot_flush_cron"`
	Snapshot          SnapshotConfig   `json:"snapshot"`
	Index             IndexConfig      `json:"index"`
	Embedding         EmbeddingConfig  `json:"embedding"`
}

type SnapshotConfig struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

type IndexConfig struct {
	Backend string                 `json:"backend"`
	Data    map[string]interface{} `json:"data"`
}

type EmbeddingConfig struct {
	Provider string                 `json:"provider"`
	Data     map[string]interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.UploadWorkers <= 0 {
		cfg.UploadWorkers = 4
	}
	if cfg.SnapshotFlushCron == "" {
		cfg.SnapshotFlushCron = "*/5 * * * *"
	}
	if cfg.Snapshot.Type == "" {
		cfg.Snapshot.Type = "local"
	}
	switch cfg.Snapshot.Type {
	case "local":
		if cfg.Snapshot.Data == nil {
			cfg.Snapshot.Data = map[string]interface{}{"path": "./data/catalog.json"}
		}
	case "s3":
		if cfg.Snapshot.Data == nil {
			return nil, fmt.Errorf("snapshot.data is required for s3 store")
		}
	default:
		return nil, fmt.Errorf("snapshot.type must be local or s3")
	}
	if cfg.Index.Backend == "" {
		cfg.Index.Backend = "memory"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "hashing"
	}
	if cfg.Embedding.Data == nil {
		cfg.Embedding.Data = map[string]interface{}{}
	}
	return &cfg, nil
}
