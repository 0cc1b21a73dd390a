package engine

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loadboard/internal/classification"
	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/report"
	"github.com/Veraticus/loadboard/internal/segment"
)

var testHeader = []string{
	"MOTORISTA", "PLACA", "DESTINO", "DATA", "COLETA GW", "CLIENTE", "NF",
	"VOLUMES", "PESO Kg", "CUBAGEM FINAL", "REDESPACHO", "CARREGAMENTO CONCLUIDO",
}

func noteRow(driver, plate, dest, client, volumes, weight, cubage, redispatch, done string) []string {
	return []string{driver, plate, dest, "10/03/2025", "GW-1", client, "NF-" + client, volumes, weight, cubage, redispatch, done}
}

func blank() []string {
	return make([]string, len(testHeader))
}

func newTestEngine(cfg Config) *Engine {
	return New(cfg, nil, nil)
}

func TestEngine_Process_EndToEnd(t *testing.T) {
	table := &model.Table{
		Header: testHeader,
		Rows: [][]string{
			noteRow("JOAO", "ABC1D23", "CAMPINAS", "A", "10", "100,5", "10,5", "", ""),
			noteRow("JOAO", "ABC1D23", "CAMPINAS", "B", "5", "50", "4,5", "TRANSLOG", ""),
			blank(),
			noteRow("MARIA", "XYZ9K87", "CD SAO PAULO", "C", "2", "bad", "20", "", "SIM"),
			blank(),
		},
	}

	cfg := DefaultConfig()
	cfg.IncludeItems = true
	res, err := newTestEngine(cfg).Process(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, res.Loads, 2)
	assert.Len(t, res.Loads[0].Load.Notes, 2)
	assert.Len(t, res.Loads[1].Load.Notes, 1)

	first := res.Loads[0]
	assert.InDelta(t, 15.0, first.Summary.Aggregate.Cubage, 1e-9)
	assert.InDelta(t, 150.5, first.Summary.Aggregate.Weight, 1e-9)
	assert.InDelta(t, 15.0, first.Summary.Aggregate.Volumes, 1e-9)
	assert.Equal(t, model.StatusPending, first.Summary.Status)
	assert.InDelta(t, 15.0*1.10/2.5/1.9, first.Allocation.Kit, 1e-9)
	assert.InDelta(t, 15.0*1.10/2.5/1.3, first.Allocation.Mix, 1e-9)
	assert.Equal(t, first.Load.Key(), first.Key)

	second := res.Loads[1]
	assert.InDelta(t, 20.0, second.Summary.Aggregate.Cubage, 1e-9)
	assert.Zero(t, second.Summary.Aggregate.Weight)
	assert.Equal(t, model.StatusCompleted, second.Summary.Status)
	assert.Equal(t, "CD SAO PAULO", second.Summary.Category)

	cubage, _ := first.Document.Value(report.LabelCubage)
	assert.Equal(t, "15.00", cubage)
	require.Len(t, first.Document.Items, 2)
	assert.Equal(t, "ENTREGA DIRETA", first.Document.Items[0].Redispatch)
	assert.Equal(t, "TRANSLOG", first.Document.Items[1].Redispatch)

	assert.Equal(t, model.Aggregate{Cubage: 35, Weight: 150.5, Volumes: 17, NoteCount: 3}, res.Totals)
	assert.Equal(t, []model.CategoryTotal{
		{Category: "REDESPACHO", Aggregate: model.Aggregate{Cubage: 4.5, Weight: 50, Volumes: 5, NoteCount: 1}},
		{Category: "DIRETO CLIENTE", Aggregate: model.Aggregate{Cubage: 10.5, Weight: 100.5, Volumes: 10, NoteCount: 1}},
		{Category: "CD SAO PAULO", Aggregate: model.Aggregate{Cubage: 20, Volumes: 2, NoteCount: 1}},
	}, res.Categories)
}

func TestEngine_Process_LiteralPolicy(t *testing.T) {
	table := &model.Table{
		Header: testHeader,
		Rows:   [][]string{noteRow("JOAO", "ABC1D23", "CAMPINAS", "A", "1", "1", "1", "translog", "")},
	}

	cfg := DefaultConfig()
	cfg.Policy = classification.RedispatchLiteral
	res, err := newTestEngine(cfg).Process(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, res.Categories, 1)
	assert.Equal(t, "TRANSLOG", res.Categories[0].Category)
}

func TestEngine_Process_MissingColumn(t *testing.T) {
	table := &model.Table{Header: testHeader[:5]}

	_, err := newTestEngine(DefaultConfig()).Process(context.Background(), table)
	assert.ErrorIs(t, err, segment.ErrMissingColumn)
}

func TestEngine_Process_StrictHeaders(t *testing.T) {
	table := &model.Table{
		Header: testHeader,
		Rows: [][]string{
			noteRow("JOAO", "ABC1D23", "CAMPINAS", "A", "1", "1", "1", "", ""),
			noteRow("JOAO", "ZZZ0000", "CAMPINAS", "B", "1", "1", "1", "", ""),
		},
	}

	lenient, err := newTestEngine(DefaultConfig()).Process(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, lenient.Loads[0].Mismatches, 1)
	assert.Equal(t, model.FieldPlate, lenient.Loads[0].Mismatches[0].Field)
	assert.Nil(t, lenient.Loads[0].Rejected)
	assert.Len(t, lenient.Pending(), 1)

	cfg := DefaultConfig()
	cfg.StrictHeaders = true
	strict, err := newTestEngine(cfg).Process(context.Background(), table)
	require.NoError(t, err)

	var mismatch *HeaderMismatchError
	require.ErrorAs(t, strict.Loads[0].Rejected, &mismatch)
	assert.Equal(t, 0, mismatch.LoadIndex)
	assert.Empty(t, strict.Pending())
}

func TestEngine_Process_StrictHeadersRejectsOnlyTheLoad(t *testing.T) {
	table := &model.Table{
		Header: testHeader,
		Rows: [][]string{
			noteRow("JOAO", "ABC1D23", "CAMPINAS", "A", "1", "1", "3", "", ""),
			noteRow("JOAO", "ABC1D23", "CAMPINAS", "B", "1", "1", "2", "", ""),
			blank(),
			noteRow("MARIA", "XYZ9K87", "CAMPINAS", "C", "1", "1", "7", "", ""),
			noteRow("PEDRO", "XYZ9K87", "CAMPINAS", "D", "1", "1", "1", "", ""),
		},
	}

	cfg := DefaultConfig()
	cfg.StrictHeaders = true
	res, err := newTestEngine(cfg).Process(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, res.Loads, 2)

	assert.Nil(t, res.Loads[0].Rejected)
	rejected := res.Loads[1].Rejected
	require.NotNil(t, rejected)
	assert.Equal(t, 1, rejected.LoadIndex)
	require.Len(t, rejected.Mismatches, 1)
	assert.Equal(t, model.FieldDriver, rejected.Mismatches[0].Field)
	assert.Equal(t, "PEDRO", rejected.Mismatches[0].Got)

	pending := res.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 0, pending[0].Load.Index)
	assert.Len(t, res.Accepted(), 1)
	require.Len(t, res.Rejected(), 1)
	assert.Equal(t, 1, res.Rejected()[0].Load.Index)

	assert.InDelta(t, 5.0, res.Totals.Cubage, 1e-9)
	dash := res.Dashboard()
	assert.Equal(t, 1, dash.Loads)
	assert.InDelta(t, 5.0, dash.Totals.Cubage, 1e-9)
	assert.Equal(t, 1, Summarize(res.Loads).Loads)
}

func TestEngine_Process_PreservesOrder(t *testing.T) {
	var rows [][]string
	for i := 0; i < 200; i++ {
		n := strconv.Itoa(i)
		rows = append(rows, noteRow("D"+n, "P"+n, "CAMPINAS", "C"+n, "1", "1", n, "", ""), blank())
	}

	cfg := DefaultConfig()
	cfg.Workers = 8
	res, err := newTestEngine(cfg).Process(context.Background(), &model.Table{Header: testHeader, Rows: rows})
	require.NoError(t, err)
	require.Len(t, res.Loads, 200)

	for i, l := range res.Loads {
		assert.Equal(t, i, l.Load.Index)
		assert.Equal(t, i, l.Document.Index)
		assert.Equal(t, fmt.Sprintf("D%d", i), l.Summary.Header.Driver)
		assert.InDelta(t, float64(i), l.Summary.Aggregate.Cubage, 1e-9)
	}
}

func TestEngine_Process_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := &model.Table{
		Header: testHeader,
		Rows:   [][]string{noteRow("JOAO", "ABC1D23", "CAMPINAS", "A", "1", "1", "1", "", "")},
	}
	_, err := newTestEngine(DefaultConfig()).Process(ctx, table)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Process_NoData(t *testing.T) {
	res, err := newTestEngine(DefaultConfig()).Process(context.Background(), &model.Table{
		Header: testHeader,
		Rows:   [][]string{blank(), {}, blank()},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Loads)
	assert.Empty(t, res.Categories)
	assert.Zero(t, res.Totals)
}

func TestResult_Filters(t *testing.T) {
	table := &model.Table{
		Header: testHeader,
		Rows: [][]string{
			noteRow("A", "P1", "CAMPINAS", "X", "1", "1", "5", "", "sim"),
			blank(),
			noteRow("B", "P2", "CAMPINAS", "Y", "2", "2", "7", "", ""),
			blank(),
			noteRow("C", "P3", "CD NORTE", "Z", "3", "3", "9", "", "nao"),
		},
	}

	res, err := newTestEngine(DefaultConfig()).Process(context.Background(), table)
	require.NoError(t, err)

	pending := res.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, 1, pending[0].Load.Index)
	assert.Equal(t, 2, pending[1].Load.Index)

	completed := res.Completed()
	require.Len(t, completed, 1)
	assert.Equal(t, 0, completed[0].Load.Index)

	dash := res.Dashboard()
	assert.Equal(t, 2, dash.Loads)
	assert.InDelta(t, 16.0, dash.Totals.Cubage, 1e-9)
	require.Len(t, dash.Categories, 2)
	assert.Equal(t, "DIRETO CLIENTE", dash.Categories[0].Category)
	assert.Equal(t, "CD NORTE", dash.Categories[1].Category)

	l, err := res.Load(2)
	require.NoError(t, err)
	assert.Equal(t, "C", l.Summary.Header.Driver)

	_, err = res.Load(3)
	assert.ErrorIs(t, err, ErrLoadNotFound)
	_, err = res.Load(-1)
	assert.ErrorIs(t, err, ErrLoadNotFound)
}
