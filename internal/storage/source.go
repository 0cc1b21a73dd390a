package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/service"
)

// SnapshotSource serves the latest stored snapshot as a row source.
type SnapshotSource struct {
	store service.SnapshotStore
}

// NewSnapshotSource wraps a snapshot store as a service.RowSource.
func NewSnapshotSource(store service.SnapshotStore) *SnapshotSource {
	return &SnapshotSource{store: store}
}

// Name implements service.RowSource.
func (s *SnapshotSource) Name() string {
	return "snapshot"
}

// Fetch implements service.RowSource.
func (s *SnapshotSource) Fetch(ctx context.Context) (*model.Table, error) {
	snap, err := s.store.LatestSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return snap.Table, nil
}

// RecordingSource fetches from another source and stores every successful
// result as a snapshot.
type RecordingSource struct {
	source service.RowSource
	store  service.SnapshotStore
}

// NewRecordingSource wraps source so each fetch is also snapshotted.
func NewRecordingSource(source service.RowSource, store service.SnapshotStore) *RecordingSource {
	return &RecordingSource{source: source, store: store}
}

// Name implements service.RowSource.
func (r *RecordingSource) Name() string {
	return r.source.Name()
}

// Fetch implements service.RowSource.
func (r *RecordingSource) Fetch(ctx context.Context) (*model.Table, error) {
	table, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := r.store.SaveSnapshot(ctx, r.source.Name(), table); err != nil {
		return nil, err
	}
	return table, nil
}
