package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/service"
)

// SaveSnapshot stores a copy of the table as fetched from source.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, source string, table *model.Table) (*service.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(source, "source"); err != nil {
		return nil, err
	}
	if err := validateTable(table); err != nil {
		return nil, err
	}

	header, err := json.Marshal(table.Header)
	if err != nil {
		return nil, fmt.Errorf("failed to encode header: %w", err)
	}
	rows := table.Rows
	if rows == nil {
		rows = [][]string{}
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}

	fetchedAt := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (source, fetched_at, header, rows, row_count)
		VALUES (?, ?, ?, ?, ?)`,
		source, fetchedAt, string(header), string(body), len(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot id: %w", err)
	}

	return &service.Snapshot{
		ID:        id,
		Source:    source,
		FetchedAt: fetchedAt,
		Table:     table,
	}, nil
}

// LatestSnapshot returns the most recent snapshot, or common.ErrNotFound.
func (s *SQLiteStorage) LatestSnapshot(ctx context.Context) (*service.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, fetched_at, header, rows
		FROM snapshots
		ORDER BY id DESC
		LIMIT 1`)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no snapshot stored: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns snapshot metadata, newest first. The returned
// snapshots carry no table. A zero limit lists everything.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context, limit int) ([]service.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, fetched_at
		FROM snapshots
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []service.Snapshot
	for rows.Next() {
		var snap service.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// PruneSnapshots keeps the newest keep snapshots and deletes the rest,
// returning how many were removed.
func (s *SQLiteStorage) PruneSnapshots(ctx context.Context, keep int) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if keep < 0 {
		return 0, ErrInvalidLimit
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}
	return int(n), nil
}

func scanSnapshot(row *sql.Row) (*service.Snapshot, error) {
	var (
		snap   service.Snapshot
		header string
		body   string
	)
	if err := row.Scan(&snap.ID, &snap.Source, &snap.FetchedAt, &header, &body); err != nil {
		return nil, err
	}

	table := &model.Table{}
	if err := json.Unmarshal([]byte(header), &table.Header); err != nil {
		return nil, fmt.Errorf("failed to decode header of snapshot %d: %w", snap.ID, err)
	}
	if err := json.Unmarshal([]byte(body), &table.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows of snapshot %d: %w", snap.ID, err)
	}
	snap.Table = table
	return &snap, nil
}
