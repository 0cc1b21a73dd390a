// Package numeric converts spreadsheet cells written with a comma decimal
// separator into float64 values without ever failing the caller.
package numeric

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Parse errors.
var (
	ErrEmpty     = errors.New("empty numeric value")
	ErrMalformed = errors.New("malformed numeric value")
)

// Recorder observes cells that held text but could not be parsed.
type Recorder interface {
	RecordParseFailure(column, raw string)
}

// Normalizer turns cells into numbers, substituting zero for anything it
// cannot parse. A Normalizer without a recorder or logger is valid.
type Normalizer struct {
	recorder Recorder
	logger   *slog.Logger
}

// NewNormalizer creates a normalizer that reports parse failures to the
// given recorder and logger. Either may be nil.
func NewNormalizer(logger *slog.Logger, recorder Recorder) *Normalizer {
	return &Normalizer{
		recorder: recorder,
		logger:   logger,
	}
}

// Float returns the numeric value of a cell of the named column, or zero
// when the cell is empty or malformed.
func (n *Normalizer) Float(column string, value any) float64 {
	f, err := Parse(value)
	if err == nil {
		return f
	}

	if n != nil && errors.Is(err, ErrMalformed) {
		raw := fmt.Sprint(value)
		if n.recorder != nil {
			n.recorder.RecordParseFailure(column, raw)
		}
		if n.logger != nil {
			n.logger.Debug("numeric cell replaced by zero", "column", column, "value", raw)
		}
	}
	return 0
}

// Parse converts a value to float64. Strings use a comma as the decimal
// separator; a period is accepted too. NaN and infinities are malformed.
func Parse(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, ErrEmpty
	case float64:
		return finite(v, value)
	case float32:
		return finite(float64(v), value)
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case string:
		return parseString(v)
	case fmt.Stringer:
		return parseString(v.String())
	default:
		return parseString(fmt.Sprint(v))
	}
}

func parseString(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return finite(f, s)
}

func finite(f float64, raw any) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, raw)
	}
	return f, nil
}
