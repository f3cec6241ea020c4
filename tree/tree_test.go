package tree

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/criterion"
	"github.com/fermi-lat/classifier/table"
)

// buildSeparableTable returns a table where feature 0 < 0.5 is
// (mostly) background and >= 0.5 is (mostly) signal, large enough to
// clear the minimum node size with a small MinSize override.
func buildSeparableTable(n int) *table.Table {
	schema := &table.FeatureSchema{Names: []string{"x"}}
	tbl := table.NewTable(schema)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < n; i++ {
		x := r.Float64()
		signal := x >= 0.5
		rec, _ := table.NewRecord(schema, []float64{x}, signal)
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl
}

func TestBuildFindsSeparatingSplit(t *testing.T) {
	tbl := buildSeparableTable(400)
	tr := New("t", criterion.Gini, 50)
	grown, err := tr.Build(tbl, false)
	if err != nil {
		t.Fatal(err)
	}
	if grown.root.IsLeaf() {
		t.Fatal("expected root to split on a clearly separable feature")
	}
	if grown.root.splitVal < 0.3 || grown.root.splitVal > 0.7 {
		t.Errorf("expected split near 0.5, got %v", grown.root.splitVal)
	}
}

func TestBuildRecursiveProducesPureLeaves(t *testing.T) {
	tbl := buildSeparableTable(500)
	tr := New("t", criterion.Gini, 50)
	grown, err := tr.Build(tbl, true)
	if err != nil {
		t.Fatal(err)
	}
	grown.root.walk(func(n *Node) {
		if n.IsLeaf() {
			p := n.Purity()
			if p != 0 && p != 1 {
				// allow impure leaves only if too small to split further
				if n.Size() >= 2*tr.MinSize {
					t.Errorf("leaf of size %d has impure purity %v", n.Size(), p)
				}
			}
		}
	})
}

func TestSmallTableStaysLeaf(t *testing.T) {
	tbl := buildSeparableTable(10)
	tr := New("t", criterion.Gini, MinSize)
	grown, err := tr.Build(tbl, true)
	if err != nil {
		t.Fatal(err)
	}
	if !grown.root.IsLeaf() {
		t.Error("expected table smaller than MinSize to stay a single leaf")
	}
}

func TestFreezeRoundTripsThroughEval(t *testing.T) {
	tbl := buildSeparableTable(400)
	tr := New("t", criterion.Gini, 50)
	grown, err := tr.Build(tbl, true)
	if err != nil {
		t.Fatal(err)
	}
	f := grown.Freeze(1.0)
	got, err := f.Eval(&tbl.Records[0])
	if err != nil {
		t.Fatal(err)
	}
	want := grown.Probability(&tbl.Records[0])
	if got != want {
		t.Errorf("frozen forest disagrees with growth tree: %v vs %v", got, want)
	}
}

func TestErrorOfPerfectSplitIsLow(t *testing.T) {
	tbl := buildSeparableTable(400)
	tr := New("t", criterion.Gini, 50)
	grown, err := tr.Build(tbl, true)
	if err != nil {
		t.Fatal(err)
	}
	if e := grown.Error(tbl, 0.5); e > 0.1 {
		t.Errorf("expected low error on separable data, got %v", e)
	}
}

func TestBuildRejectsNonFiniteFeatureValue(t *testing.T) {
	schema := &table.FeatureSchema{Names: []string{"x"}}
	tbl := table.NewTable(schema)
	for i := 0; i < 200; i++ {
		x := float64(i)
		signal := i%2 == 0
		if i%4 == 0 {
			// Scatter enough non-finite values that at least one lands
			// inside minimizeOverColumn's middle search bracket
			// regardless of how NaN elements land under a
			// comparison-based sort.
			x = math.NaN()
		}
		rec, _ := table.NewRecord(schema, []float64{x}, signal)
		tbl.Records = append(tbl.Records, rec)
	}
	tr := New("t", criterion.Gini, 50)
	_, err := tr.Build(tbl, false)
	if err == nil {
		t.Fatal("expected an error for a non-finite feature value")
	}
	if !errors.Is(err, classifyerr.ErrNumeric) {
		t.Errorf("expected a NumericError, got %v", err)
	}
}

func TestConstantColumnIsSkipped(t *testing.T) {
	schema := &table.FeatureSchema{Names: []string{"x"}}
	tbl := table.NewTable(schema)
	for i := 0; i < 200; i++ {
		signal := i%2 == 0
		rec, _ := table.NewRecord(schema, []float64{1.0}, signal)
		tbl.Records = append(tbl.Records, rec)
	}
	tr := New("t", criterion.Gini, 50)
	grown, err := tr.Build(tbl, false)
	if err != nil {
		t.Fatal(err)
	}
	if !grown.root.IsLeaf() {
		t.Error("expected a constant feature column to never produce a split")
	}
}
