package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	var buf bytes.Buffer

	p := NewProgress(&buf, 3, "Rendering")
	p.Step()
	p.Step()
	p.Step()
	p.Finish()

	out := buf.String()
	assert.Contains(t, out, "Rendering")
	assert.Contains(t, out, "3/3")
}
