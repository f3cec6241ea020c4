package loader

import (
	"context"
	"encoding/csv"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/table"
)

// CSV loads comma-delimited numeric files, the default,
// dependency-free loader. It auto-detects a header row the same way
// the teacher's parse.go did: if any value on the first row fails to
// parse as a float, that row is treated as column headers rather than
// data, and Schema.Names is filled from it.
type CSV struct {
	rng *rand.Rand
}

// NewCSV returns a CSV loader. Pass a seeded *rand.Rand for
// reproducible Random-subset sampling in tests; nil uses a source
// seeded with 1.
func NewCSV(rng *rand.Rand) *CSV {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &CSV{rng: rng}
}

// Load reads path as CSV and returns the rows selected by subset.
// schema.Names is populated from the header row when schema.Names is
// empty and a header is detected.
func (c *CSV) Load(ctx context.Context, path string, schema *Schema, subset Subset) (Rows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyerr.IO(err, "opening %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if err == io.EOF {
		return nil, classifyerr.Invalid("%s is empty", path)
	}
	if err != nil {
		return nil, classifyerr.IO(err, "reading %s", path)
	}

	var rows Rows
	pos := 0
	line := 1

	if header, ok := asHeader(first); ok {
		if len(schema.Names) == 0 {
			schema.Names = header
		}
	} else {
		row, err := parseRow(first, path, 1)
		if err != nil {
			return nil, err
		}
		if c.keep(subset, pos) {
			rows = append(rows, row)
		}
		pos++
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classifyerr.IO(err, "reading %s", path)
		}
		line++
		row, err := parseRow(raw, path, line)
		if err != nil {
			return nil, err
		}
		if c.keep(subset, pos) {
			rows = append(rows, row)
		}
		pos++
	}

	return rows, nil
}

func (c *CSV) keep(subset Subset, pos int) bool {
	switch subset {
	case Even:
		return pos%2 == 0
	case Odd:
		return pos%2 == 1
	case Random:
		return c.rng.Float64() < 0.5
	default:
		return true
	}
}

// parseRow parses raw into a feature row, rejecting both malformed
// and non-finite values: strconv happily accepts "NaN"/"Inf"/"-Inf"
// as valid float64s, but a non-finite feature value breaks every
// downstream comparison (sorting, split search), so it is rejected
// here as a NumericError rather than silently loaded.
func parseRow(raw []string, path string, line int) ([]float64, error) {
	row := make([]float64, len(raw))
	for i, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, classifyerr.Invalid("%s line %d: %v", path, line, err)
		}
		if !table.IsFinite(f) {
			return nil, classifyerr.Numeric("%s line %d: column %d: non-finite value %q", path, line, i, v)
		}
		row[i] = f
	}
	return row, nil
}

// asHeader reports whether row looks like a header: at least one
// column fails to parse as a float.
func asHeader(row []string) ([]string, bool) {
	for _, v := range row {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return row, true
		}
	}
	return nil, false
}
