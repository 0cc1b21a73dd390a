package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loadboard/internal/model"
)

func TestCheckHeaders(t *testing.T) {
	first := model.Note{Driver: "JOAO", Plate: "ABC1D23", Destination: "CAMPINAS", Date: "01/03", CollectionCode: "GW1", Row: 2}

	t.Run("consistent load", func(t *testing.T) {
		second := first
		second.Row = 3
		second.Driver = " JOAO "
		assert.Empty(t, CheckHeaders(model.Load{Notes: []model.Note{first, second}}))
	})

	t.Run("blank cells are not disagreements", func(t *testing.T) {
		assert.Empty(t, CheckHeaders(model.Load{Notes: []model.Note{first, {Row: 3}}}))
	})

	t.Run("differing plate", func(t *testing.T) {
		second := first
		second.Row = 3
		second.Plate = "XYZ9K87"

		got := CheckHeaders(model.Load{Notes: []model.Note{first, second}})
		require.Len(t, got, 1)
		assert.Equal(t, HeaderMismatch{Field: model.FieldPlate, Want: "ABC1D23", Got: "XYZ9K87", Row: 3}, got[0])
	})

	t.Run("single note", func(t *testing.T) {
		assert.Empty(t, CheckHeaders(model.Load{Notes: []model.Note{first}}))
	})
}

func TestHeaderMismatchError(t *testing.T) {
	err := &HeaderMismatchError{
		LoadIndex:  2,
		Mismatches: []HeaderMismatch{{Field: model.FieldDate, Want: "01/03", Got: "02/03", Row: 9}},
	}
	assert.Contains(t, err.Error(), "load 2")
	assert.Contains(t, err.Error(), "row 9 date")
}
