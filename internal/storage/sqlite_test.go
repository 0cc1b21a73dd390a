package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testTable(rows int) *model.Table {
	table := &model.Table{Header: []string{"MOTORISTA", "PLACA", "CUBAGEM FINAL"}}
	for i := 0; i < rows; i++ {
		table.Rows = append(table.Rows, []string{fmt.Sprintf("DRIVER %d", i), "ABC1D23", "1,5"})
	}
	return table
}

func TestSQLiteStorage_SaveAndLatest(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.SaveSnapshot(ctx, "sheets:one", testTable(1))
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	want := testTable(3)
	want.Rows = append(want.Rows, []string{"", "", ""})
	second, err := store.SaveSnapshot(ctx, "sheets:two", want)
	if err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("snapshot IDs not increasing: %d then %d", first.ID, second.ID)
	}

	got, err := store.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if got.Source != "sheets:two" {
		t.Errorf("Source = %q, want %q", got.Source, "sheets:two")
	}
	if !reflect.DeepEqual(got.Table, want) {
		t.Errorf("Table = %+v, want %+v", got.Table, want)
	}
	if got.FetchedAt.IsZero() {
		t.Error("FetchedAt should be set")
	}
}

func TestSQLiteStorage_LatestSnapshotEmpty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.LatestSnapshot(context.Background())
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("LatestSnapshot() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStorage_SaveSnapshotValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		table   *model.Table
		wantErr error
		name    string
		source  string
	}{
		{name: "empty source", source: " ", table: testTable(1), wantErr: ErrEmptyString},
		{name: "nil table", source: "x", table: nil, wantErr: ErrNilParameter},
		{name: "no header", source: "x", table: &model.Table{}, wantErr: ErrEmptyString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.SaveSnapshot(ctx, tt.source, tt.table)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SaveSnapshot() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSQLiteStorage_ListAndPrune(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.SaveSnapshot(ctx, fmt.Sprintf("src-%d", i), testTable(i)); err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
	}

	listed, err := store.ListSnapshots(ctx, 2)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("ListSnapshots() returned %d, want 2", len(listed))
	}
	if listed[0].Source != "src-4" || listed[1].Source != "src-3" {
		t.Errorf("ListSnapshots() order = %s, %s", listed[0].Source, listed[1].Source)
	}

	all, err := store.ListSnapshots(ctx, 0)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("ListSnapshots(0) returned %d, want 5", len(all))
	}

	removed, err := store.PruneSnapshots(ctx, 2)
	if err != nil {
		t.Fatalf("PruneSnapshots() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("PruneSnapshots() removed %d, want 3", removed)
	}

	latest, err := store.LatestSnapshot(ctx)
	if err != nil {
		t.Fatalf("LatestSnapshot() error = %v", err)
	}
	if latest.Source != "src-4" {
		t.Errorf("latest after prune = %q, want src-4", latest.Source)
	}

	if _, err := store.PruneSnapshots(ctx, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("PruneSnapshots(-1) error = %v, want ErrInvalidLimit", err)
	}
}

func TestSQLiteStorage_Migrations(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store1, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err2 := store1.Migrate(ctx); err2 != nil {
		t.Fatalf("Initial migration failed: %v", err2)
	}
	_ = store1.Close()

	// Running migrations again should not error
	store2, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store2.Close() }()

	if err := store2.Migrate(ctx); err != nil {
		t.Fatalf("Repeated migration failed: %v", err)
	}

	var version int
	if err := store2.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, ExpectedSchemaVersion)
	}

	if _, err := store2.SaveSnapshot(ctx, "x", testTable(1)); err != nil {
		t.Errorf("Database not functional after migration: %v", err)
	}
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.SaveSnapshot(context.Background(), "mem", testTable(2)); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if store.Path() != ":memory:" {
		t.Errorf("Path() = %q", store.Path())
	}
}

type stubSource struct {
	table *model.Table
	err   error
}

func (s stubSource) Fetch(context.Context) (*model.Table, error) { return s.table, s.err }
func (s stubSource) Name() string                                 { return "stub" }

func TestRecordingAndSnapshotSource(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	snapshotSource := NewSnapshotSource(store)
	if _, err := snapshotSource.Fetch(ctx); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Fetch() on empty store error = %v, want ErrNotFound", err)
	}

	want := testTable(2)
	recording := NewRecordingSource(stubSource{table: want}, store)
	if recording.Name() != "stub" {
		t.Errorf("Name() = %q, want stub", recording.Name())
	}
	if _, err := recording.Fetch(ctx); err != nil {
		t.Fatalf("recording Fetch() error = %v", err)
	}

	got, err := snapshotSource.Fetch(ctx)
	if err != nil {
		t.Fatalf("snapshot Fetch() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("snapshot table = %+v, want %+v", got, want)
	}

	failing := NewRecordingSource(stubSource{err: common.ErrNoData}, store)
	if _, err := failing.Fetch(ctx); !errors.Is(err, common.ErrNoData) {
		t.Errorf("Fetch() error = %v, want ErrNoData", err)
	}
	listed, _ := store.ListSnapshots(ctx, 0)
	if len(listed) != 1 {
		t.Errorf("failed fetch should not be stored, have %d snapshots", len(listed))
	}
}

func TestSQLiteStorage_MigrateRejectsNewerSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "future.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", ExpectedSchemaVersion+1)); err != nil {
		t.Fatalf("Failed to set version: %v", err)
	}

	if err := store.Migrate(context.Background()); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("Migrate() error = %v, want ErrSchemaTooNew", err)
	}
}
