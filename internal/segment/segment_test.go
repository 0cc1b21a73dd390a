package segment

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loadboard/internal/model"
)

func sheetHeader() []string {
	return []string{
		"MOTORISTA", "PLACA", "DESTINO", "DATA", "COLETA GW", "CLIENTE", "NF",
		"VOLUMES", "PESO Kg", "CUBAGEM FINAL", "REDESPACHO", "CARREGAMENTO CONCLUIDO",
	}
}

func blankRow() []string {
	return make([]string, len(sheetHeader()))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank([]string{}))
	assert.True(t, IsBlank([]string{"", "", ""}))
	assert.False(t, IsBlank([]string{"", "", "x"}))
	assert.False(t, IsBlank([]string{" "}), "whitespace is data")
}

func TestSplit(t *testing.T) {
	blank := func(s string) bool { return s == "" }

	tests := []struct {
		name  string
		items []string
		want  [][]string
	}{
		{name: "no input", items: nil, want: nil},
		{name: "only delimiters", items: []string{"", "", ""}, want: nil},
		{name: "no delimiters", items: []string{"a", "b"}, want: [][]string{{"a", "b"}}},
		{name: "leading and trailing delimiters", items: []string{"", "a", ""}, want: [][]string{{"a"}}},
		{name: "consecutive delimiters", items: []string{"a", "", "", "b", "c"}, want: [][]string{{"a"}, {"b", "c"}}},
		{name: "two loads with trailing blank", items: []string{"a", "b", "", "c", ""}, want: [][]string{{"a", "b"}, {"c"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.items, blank))
		})
	}
}

func TestSplit_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	blank := func(s string) bool { return s == "" }

	for run := 0; run < 200; run++ {
		n := rng.IntN(40)
		items := make([]string, n)
		var data []string
		for i := range items {
			if rng.IntN(3) == 0 {
				continue
			}
			items[i] = strconv.Itoa(i)
			data = append(data, items[i])
		}

		blocks := Split(items, blank)

		var flattened []string
		for _, block := range blocks {
			require.NotEmpty(t, block, "run %d produced an empty block", run)
			flattened = append(flattened, block...)
		}
		assert.Equal(t, data, flattened, "run %d lost or reordered items", run)
	}
}

func TestBind(t *testing.T) {
	t.Run("trims header names", func(t *testing.T) {
		header := sheetHeader()
		header[0] = "  MOTORISTA "
		_, err := Bind(header, nil)
		require.NoError(t, err)
	})

	t.Run("reports every missing column", func(t *testing.T) {
		header := sheetHeader()[:9]
		_, err := Bind(header, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingColumn))

		var mce *MissingColumnError
		require.ErrorAs(t, err, &mce)
		assert.Equal(t, []string{"CUBAGEM FINAL", "REDESPACHO", "CARREGAMENTO CONCLUIDO"}, mce.Columns)
	})

	t.Run("case is significant", func(t *testing.T) {
		header := sheetHeader()
		header[8] = "PESO KG"
		_, err := Bind(header, nil)
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("column overrides", func(t *testing.T) {
		header := sheetHeader()
		header[6] = "NOTAS FISCAIS"
		schema, err := Bind(header, map[model.Field]string{model.FieldInvoices: "NOTAS FISCAIS"})
		require.NoError(t, err)

		row := blankRow()
		row[6] = "123/456"
		assert.Equal(t, "123/456", schema.Note(row, 2).Invoices)
	})
}

func TestSchema_NoteShortRow(t *testing.T) {
	schema, err := Bind(sheetHeader(), nil)
	require.NoError(t, err)

	note := schema.Note([]string{"JOAO", "ABC1D23"}, 5)
	assert.Equal(t, "JOAO", note.Driver)
	assert.Equal(t, "ABC1D23", note.Plate)
	assert.Empty(t, note.Cubage)
	assert.Equal(t, 5, note.Row)
}

func TestLoads(t *testing.T) {
	row := func(driver, client string) []string {
		r := blankRow()
		r[0] = driver
		r[5] = client
		return r
	}

	table := &model.Table{
		Header: sheetHeader(),
		Rows: [][]string{
			blankRow(),
			row("JOAO", "A"),
			row("JOAO", "B"),
			{},
			row("MARIA", "C"),
			blankRow(),
			blankRow(),
		},
	}

	loads, err := Loads(table, nil)
	require.NoError(t, err)
	require.Len(t, loads, 2)

	assert.Equal(t, 0, loads[0].Index)
	assert.Equal(t, 1, loads[1].Index)
	require.Len(t, loads[0].Notes, 2)
	require.Len(t, loads[1].Notes, 1)

	assert.Equal(t, "A", loads[0].Notes[0].Client)
	assert.Equal(t, 3, loads[0].Notes[0].Row)
	assert.Equal(t, "B", loads[0].Notes[1].Client)
	assert.Equal(t, "C", loads[1].Notes[0].Client)
	assert.Equal(t, 6, loads[1].Notes[0].Row)
}

func TestLoads_MissingColumnIsFatal(t *testing.T) {
	loads, err := Loads(&model.Table{Header: []string{"MOTORISTA"}}, nil)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Nil(t, loads)
}

func TestLoads_EmptyTable(t *testing.T) {
	loads, err := Loads(&model.Table{Header: sheetHeader()}, nil)
	require.NoError(t, err)
	assert.Empty(t, loads)
}
