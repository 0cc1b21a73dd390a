package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/metrics"
	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/numeric"
	"github.com/Veraticus/loadboard/internal/report"
	"github.com/Veraticus/loadboard/internal/sheets"
)

type fakeRenderer struct {
	err  error
	docs []report.Document
}

func (f *fakeRenderer) Render(doc report.Document) ([]byte, error) {
	f.docs = append(f.docs, doc)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func (f *fakeRenderer) Extension() string { return "pdf" }

func sheetTable() *model.Table {
	return &model.Table{
		Header: []string{"MOTORISTA", "PLACA", "DESTINO", "DATA", "COLETA GW", "CLIENTE", "NF",
			"VOLUMES", "PESO Kg", "CUBAGEM FINAL", "REDESPACHO", "CARREGAMENTO CONCLUIDO"},
		Rows: [][]string{
			{"JOAO", "ABC 1D23", "CD SUL", "01/02", "GW1", "ACME", "1", "10", "100", "2,5", "", "NAO"},
			{"JOAO", "ABC 1D23", "CD SUL", "01/02", "GW1", "OMEGA", "7", "3", "30", "abc", "TRANSLOG", "NAO"},
			{"", "", "", "", "", "", "", "", "", "", "", ""},
			{"ANA", "XYZ9K87", "CAMPINAS", "01/02", "GW2", "BETA", "2", "5", "50", "1", "", "sim"},
		},
	}
}

type fixture struct {
	source   *sheets.MockReader
	renderer *fakeRenderer
	metrics  *metrics.Metrics
	server   *httptest.Server
}

func newFixture(t *testing.T, opts ...func(*engine.Config)) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	cfg := engine.DefaultConfig()
	cfg.IncludeItems = true
	for _, opt := range opts {
		opt(&cfg)
	}
	eng := engine.New(cfg, numeric.NewNormalizer(logger, m), logger)

	f := &fixture{
		source:   sheets.NewMockReader(sheetTable()),
		renderer: &fakeRenderer{},
		metrics:  m,
	}
	f.server = httptest.NewServer(NewServer(f.source, eng, f.renderer, m, logger).Router())
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
	assert.Equal(t, 0, f.source.Calls())
}

func TestListLoads(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantPlates []string
	}{
		{name: "all", query: "", wantStatus: http.StatusOK, wantPlates: []string{"ABC 1D23", "XYZ9K87"}},
		{name: "pending", query: "?status=pending", wantStatus: http.StatusOK, wantPlates: []string{"ABC 1D23"}},
		{name: "completed", query: "?status=COMPLETED", wantStatus: http.StatusOK, wantPlates: []string{"XYZ9K87"}},
		{name: "unknown", query: "?status=late", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp, body := f.get(t, "/api/loads"+tt.query)
			require.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			if tt.wantStatus != http.StatusOK {
				return
			}

			var loads []LoadResponse
			require.NoError(t, json.Unmarshal(body, &loads))
			plates := make([]string, len(loads))
			for i, l := range loads {
				plates[i] = l.Header.Plate
				assert.Nil(t, l.Document)
			}
			assert.Equal(t, tt.wantPlates, plates)
		})
	}
}

func TestGetLoad(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/api/loads/0")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var load LoadResponse
	require.NoError(t, json.Unmarshal(body, &load))
	assert.Equal(t, 0, load.Index)
	assert.Equal(t, model.StatusPending, load.Status)
	assert.Equal(t, "CD SUL", load.Category)
	assert.InDelta(t, 2.5, load.Totals.Cubage, 1e-9)
	assert.InDelta(t, 130, load.Totals.Weight, 1e-9)
	assert.InDelta(t, 2.5*1.10/2.5/1.9, load.Allocation.Kit, 1e-9)
	require.NotNil(t, load.Document)
	require.Len(t, load.Document.Items, 2)
	assert.Equal(t, "TRANSLOG", load.Document.Items[1].Redispatch)
	assert.Equal(t, "0.00", load.Document.Items[1].Cubage)

	resp, _ = f.get(t, "/api/loads/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.get(t, "/api/loads/2")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.get(t, "/api/loads/x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetLoadPDF(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/api/loads/0/pdf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "carga_0_ABC_1D23.pdf")
	assert.Equal(t, "%PDF-fake", string(body))
	require.Len(t, f.renderer.docs, 1)
	assert.Equal(t, report.Title, f.renderer.docs[0].Title)

	f.renderer.err = errors.New("no fonts")
	resp, _ = f.get(t, "/api/loads/0/pdf")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRejectedLoad(t *testing.T) {
	f := newFixture(t, func(c *engine.Config) { c.StrictHeaders = true })
	table := sheetTable()
	table.Rows[1][0] = "PEDRO"
	f.source.Table = table

	resp, body := f.get(t, "/api/loads")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var loads []LoadResponse
	require.NoError(t, json.Unmarshal(body, &loads))
	require.Len(t, loads, 2)
	assert.Contains(t, loads[0].Rejected, "PEDRO")
	assert.Empty(t, loads[1].Rejected)

	_, body = f.get(t, "/api/loads?status=completed")
	require.NoError(t, json.Unmarshal(body, &loads))
	require.Len(t, loads, 1)
	assert.Equal(t, 1, loads[0].Index)

	resp, body = f.get(t, "/api/loads/0/pdf")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "header mismatches")
	assert.Empty(t, f.renderer.docs)

	resp, _ = f.get(t, "/api/loads/1/pdf")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = f.get(t, "/api/categories?status=all")
	var d engine.Dashboard
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, 1, d.Loads)
}

func TestCategories(t *testing.T) {
	f := newFixture(t)

	resp, body := f.get(t, "/api/categories")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var d engine.Dashboard
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, 1, d.Loads)
	require.Len(t, d.Categories, 1)
	assert.Equal(t, "CD SUL", d.Categories[0].Category)
	assert.Equal(t, 2, d.Categories[0].NoteCount)

	_, body = f.get(t, "/api/categories?status=all")
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, 2, d.Loads)
}

func TestSourceErrors(t *testing.T) {
	tests := []struct {
		err        error
		table      *model.Table
		name       string
		wantStatus int
	}{
		{name: "no data", err: common.ErrNoData, wantStatus: http.StatusServiceUnavailable},
		{name: "upstream failure", err: errors.New("boom"), wantStatus: http.StatusBadGateway},
		{
			name:       "missing column",
			table:      &model.Table{Header: []string{"MOTORISTA"}, Rows: [][]string{{"JOAO"}}},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.err != nil {
				f.source.SetFetchError(tt.err)
			} else {
				f.source.Table = tt.table
			}

			resp, body := f.get(t, "/api/loads")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), `"error"`)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)

	f.get(t, "/api/loads")
	resp, body := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	text := string(body)
	assert.Contains(t, text, `loadboard_parse_failures_total{column="CUBAGEM FINAL"} 1`)
	assert.Contains(t, text, `loadboard_loads{status="PENDING"} 1`)
	assert.True(t, strings.Contains(text, `loadboard_computations_total{outcome="success"} 1`))
}
