package boost

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/criterion"
	"github.com/fermi-lat/classifier/efficiency"
	"github.com/fermi-lat/classifier/table"
)

// point satisfies forest.Values for the scenario-1 probability checks
// below, which need to query a forest at feature values not tied to
// any table.Record.
type point struct{ x, y float64 }

func (p point) Value(index int) float64 {
	if index == 0 {
		return p.x
	}
	return p.y
}

func buildNoisyTable(n int) *table.Table {
	schema := &table.FeatureSchema{Names: []string{"x"}}
	tbl := table.NewTable(schema)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < n; i++ {
		x := r.Float64()
		signal := x >= 0.5
		if r.Float64() < 0.05 {
			signal = !signal // label noise so boosting has something to do
		}
		rec, _ := table.NewRecord(schema, []float64{x}, signal)
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl
}

func TestRunProducesWeightedRoots(t *testing.T) {
	tbl := buildNoisyTable(600)
	var rounds []Round
	f, err := Run(tbl, Config{
		Title:     "t",
		Crit:      criterion.Gini,
		MinSize:   50,
		Beta:      1.0,
		Rounds:    3,
		Recursive: true,
	}, func(r Round) { rounds = append(rounds, r) })
	require.NoError(t, err)
	require.Len(t, f.Roots, 3)
	assert.Len(t, rounds, 3)
	for _, wr := range f.Roots {
		assert.Greaterf(t, wr.Weight, 0.0, "expected positive voting weight, got %v", wr.Weight)
	}
}

func TestRunRequiresAtLeastOneRound(t *testing.T) {
	tbl := buildNoisyTable(200)
	if _, err := Run(tbl, Config{Rounds: 0, Crit: criterion.Gini, MinSize: 50}, nil); err == nil {
		t.Error("expected error for zero rounds")
	}
}

// buildPerfectlySeparableTable has no label noise at all, so a single
// tree grown over it classifies every record correctly: e1 == 0.
func buildPerfectlySeparableTable(n int) *table.Table {
	schema := &table.FeatureSchema{Names: []string{"x"}}
	tbl := table.NewTable(schema)
	r := rand.New(rand.NewSource(11))
	for i := 0; i < n; i++ {
		x := r.Float64()
		signal := x >= 0.5
		rec, _ := table.NewRecord(schema, []float64{x}, signal)
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl
}

// TestRunZeroErrorIsInvalidInput covers spec.md's scenario 5: a
// round with e1 == 0 cannot compute a finite boost weight
// (log((1-e)/e) is undefined at e=0), and must fail with
// InvalidInput rather than silently producing a corrupt weight.
func TestRunZeroErrorIsInvalidInput(t *testing.T) {
	tbl := buildPerfectlySeparableTable(600)
	_, err := Run(tbl, Config{
		Title:     "t",
		Crit:      criterion.Gini,
		MinSize:   50,
		Beta:      1.0,
		Rounds:    1,
		Recursive: true,
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, classifyerr.ErrInvalidInput), "expected ErrInvalidInput, got %v", err)
}

// buildGaussianSeparableTable is spec.md's scenario 1: two features
// x, y; signal ~ Normal(+1, 1); background ~ Normal(-1, 1); y unused.
func buildGaussianSeparableTable(n int) *table.Table {
	schema := &table.FeatureSchema{Names: []string{"x", "y"}}
	tbl := table.NewTable(schema)
	r := rand.New(rand.NewSource(3))
	for i := 0; i < n; i++ {
		x := r.NormFloat64() + 1
		y := r.NormFloat64()
		rec, _ := table.NewRecord(schema, []float64{x, y}, true)
		tbl.Records = append(tbl.Records, rec)
	}
	for i := 0; i < n; i++ {
		x := r.NormFloat64() - 1
		y := r.NormFloat64()
		rec, _ := table.NewRecord(schema, []float64{x, y}, false)
		tbl.Records = append(tbl.Records, rec)
	}
	return tbl
}

// TestRunSeparableGaussianScenario covers spec.md's scenario 1: after
// normalize(0.5, 0.5) and a single-round build, probability([+1, 0])
// > 0.8, probability([-1, 0]) < 0.2, and the signal resolution sigma
// computed by the efficiency analyzer over this forest is
// approximately 0.20.
func TestRunSeparableGaussianScenario(t *testing.T) {
	tbl := buildGaussianSeparableTable(1000)
	require.NoError(t, tbl.Normalize(0.5, 0.5))

	f, err := Run(tbl, Config{
		Title:     "t",
		Crit:      criterion.Gini,
		MinSize:   50,
		Beta:      1.0,
		Rounds:    1,
		Recursive: true,
	}, nil)
	require.NoError(t, err)

	probAt := func(x, y float64) float64 {
		p, err := f.Eval(point{x, y})
		require.NoError(t, err)
		return p
	}

	assert.Greater(t, probAt(1, 0), 0.8)
	assert.Less(t, probAt(-1, 0), 0.2)

	a := efficiency.New()
	for i := range tbl.Records {
		r := &tbl.Records[i]
		p, err := f.Eval(r)
		require.NoError(t, err)
		a.Add(p, r.Weight(true), r.Weight(false))
	}
	a.Setup()
	assert.InDelta(t, 0.20, a.Sigma(), 0.03)
}

func TestReweightRenormalizesTotalToOne(t *testing.T) {
	tbl := buildNoisyTable(400)
	_, err := Run(tbl, Config{
		Title:     "t",
		Crit:      criterion.Gini,
		MinSize:   50,
		Beta:      0.5,
		Rounds:    1,
		Recursive: true,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for i := range tbl.Records {
		total += tbl.Records[i].CurrentWeight()
	}
	if diff := total - 1.0; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("expected renormalized total weight 1.0, got %v", total)
	}
}
