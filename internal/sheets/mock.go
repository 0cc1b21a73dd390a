package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/loadboard/internal/model"
)

// MockReader is a mock implementation of service.RowSource for testing.
type MockReader struct {
	FetchFunc      func(ctx context.Context) (*model.Table, error)
	Table          *model.Table
	SourceName     string
	FetchCallCount int
	mu             sync.Mutex
}

// NewMockReader creates a mock reader that returns a copy of the given table.
func NewMockReader(table *model.Table) *MockReader {
	return &MockReader{Table: table, SourceName: "mock"}
}

// Fetch implements the RowSource interface.
func (m *MockReader) Fetch(ctx context.Context) (*model.Table, error) {
	m.mu.Lock()
	m.FetchCallCount++
	fn := m.FetchFunc
	table := m.Table
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if table == nil {
		return &model.Table{}, nil
	}

	rows := make([][]string, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = append([]string(nil), r...)
	}
	return &model.Table{Header: append([]string(nil), table.Header...), Rows: rows}, nil
}

// Name implements the RowSource interface.
func (m *MockReader) Name() string {
	return m.SourceName
}

// SetFetchError configures the mock to fail every Fetch call.
func (m *MockReader) SetFetchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchFunc = func(context.Context) (*model.Table, error) {
		return nil, err
	}
}

// Calls returns how many times Fetch was called.
func (m *MockReader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCallCount
}
