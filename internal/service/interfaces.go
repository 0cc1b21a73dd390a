// Package service defines the interfaces shared between the row sources,
// storage and renderers of the application.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/report"
)

// RowSource yields the raw content of the loading sheet.
type RowSource interface {
	// Fetch reads the header row and every data row, in sheet order.
	Fetch(ctx context.Context) (*model.Table, error)
	// Name identifies the source in logs and snapshots.
	Name() string
}

// Snapshot is a stored copy of a source's table.
type Snapshot struct {
	FetchedAt time.Time
	Table     *model.Table
	Source    string
	ID        int64
}

// SnapshotStore keeps raw tables for offline runs. Computed results are
// never stored.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, source string, table *model.Table) (*Snapshot, error)
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]Snapshot, error)
	PruneSnapshots(ctx context.Context, keep int) (int, error)
	Close() error
}

// DocumentRenderer turns a conference document into a printable file.
type DocumentRenderer interface {
	Render(doc report.Document) ([]byte, error)
	// Extension is the file extension of rendered output, without the dot.
	Extension() string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
