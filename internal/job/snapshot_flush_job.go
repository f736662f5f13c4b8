package job

import (
	"context"

	"github.com/docforge/docforge/internal/catalog"
)

// SnapshotFlushJob periodically rewrites the catalog snapshot, so the
// persisted copy catches up even if an earlier post-mutation write failed.
type SnapshotFlushJob struct {
	catalog *catalog.Catalog
}

func NewSnapshotFlushJob(cat *catalog.Catalog) *SnapshotFlushJob {
	return &SnapshotFlushJob{catalog: cat}
}

func (j *SnapshotFlushJob) Name() string {
	return "snapshot_flush"
}

func (j *SnapshotFlushJob) Run(ctx context.Context) error {
	if j.catalog == nil {
		return nil
	}
	return j.catalog.Flush(ctx)
}
