// Package pgvector is the Postgres-backed vector index backend.
package pgvector

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/docforge/docforge/internal/index"
	"github.com/docforge/docforge/internal/model"
)

type config struct {
	DSN   string `json:"dsn"`
	Table string `json:"table"`
}

type store struct {
	db    *sqlx.DB
	table string
}

func init() {
	index.Register("pgvector", create)
}

func create(args interface{}, dimension int) (index.Backend, error) {
	cfg := &config{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pgvector backend requires dsn")
	}
	if cfg.Table == "" {
		cfg.Table = "doc_chunks"
	}
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &store{db: db, table: cfg.Table}
	if err := s.ensureSchema(dimension); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeConfig(args interface{}, dst *config) error {
	if args == nil {
		return nil
	}
	m, ok := args.(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid pgvector config")
	}
	if v, ok := m["dsn"].(string); ok {
		dst.DSN = v
	}
	if v, ok := m["table"].(string); ok {
		dst.Table = v
	}
	return nil
}

func (s *store) ensureSchema(dimension int) error {
	if _, err := s.db.Exec("CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("enable pgvector extension: %w", err)
	}
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          text PRIMARY KEY,
			doc_id      text NOT NULL,
			session_id  text NOT NULL,
			source      text NOT NULL,
			position    int NOT NULL,
			updated     boolean NOT NULL DEFAULT false,
			update_time bigint NOT NULL DEFAULT 0,
			content     text NOT NULL,
			embedding   vector(%d)
		)`, s.table, dimension)
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create chunk table: %w", err)
	}
	idx := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_doc_id_idx ON %s (doc_id)", s.table, s.table)
	if _, err := s.db.Exec(idx); err != nil {
		return fmt.Errorf("create doc_id index: %w", err)
	}
	return nil
}

func (s *store) Upsert(ctx context.Context, items []index.Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, doc_id, session_id, source, position, updated, update_time, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			doc_id      = EXCLUDED.doc_id,
			session_id  = EXCLUDED.session_id,
			source      = EXCLUDED.source,
			position    = EXCLUDED.position,
			updated     = EXCLUDED.updated,
			update_time = EXCLUDED.update_time,
			content     = EXCLUDED.content,
			embedding   = EXCLUDED.embedding`, s.table)
	for _, item := range items {
		_, err := s.db.ExecContext(ctx, query,
			item.ID,
			item.Meta.DocID,
			item.Meta.SessionID,
			item.Meta.Source,
			item.Meta.Position,
			item.Meta.Updated,
			item.Meta.UpdateTime,
			item.Text,
			pgv.NewVector(item.Vector),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *store) DeleteByDoc(ctx context.Context, docID string) (int, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE doc_id = $1", s.table)
	res, err := s.db.ExecContext(ctx, query, docID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

type matchRow struct {
	Content    string  `db:"content"`
	Distance   float64 `db:"distance"`
	Source     string  `db:"source"`
	DocID      string  `db:"doc_id"`
	SessionID  string  `db:"session_id"`
	Position   int     `db:"position"`
	Updated    bool    `db:"updated"`
	UpdateTime int64   `db:"update_time"`
}

func (s *store) Search(ctx context.Context, vector []float32, topK int) ([]model.ChunkMatch, error) {
	if topK <= 0 {
		topK = 5
	}
	query := fmt.Sprintf(`
		SELECT content, source, doc_id, session_id, position, updated, update_time,
		       embedding <=> $1 AS distance
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`, s.table)
	var rows []matchRow
	if err := s.db.SelectContext(ctx, &rows, query, pgv.NewVector(vector), topK); err != nil {
		return nil, err
	}
	matches := make([]model.ChunkMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, model.ChunkMatch{
			Text:     row.Content,
			Distance: row.Distance,
			Meta: model.ChunkMeta{
				Source:     row.Source,
				DocID:      row.DocID,
				SessionID:  row.SessionID,
				Position:   row.Position,
				Updated:    row.Updated,
				UpdateTime: row.UpdateTime,
			},
		})
	}
	return matches, nil
}

func (s *store) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.GetContext(ctx, &count, query); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *store) Drop(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.table)
	_, err := s.db.ExecContext(ctx, query)
	return err
}
