// Package efficiency implements the background-vs-efficiency
// analyzer: bin a forest's predicted purity over a table of weighted
// signal/background records, then integrate those bins into an
// efficiency/cumulative-background map and a signal-resolution
// estimate, following the original engine's BackgroundVsEfficiency.
package efficiency

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/fermi-lat/classifier/forest"
)

// BinSize is the purity bin width, matching
// BackgroundVsEfficiency::s_binsize.
const BinSize = 0.01

// bin holds the accumulated signal and background weight for one
// purity bin.
type bin struct {
	prob       float64
	signal     float64
	background float64
}

// Analyzer accumulates purity bins and, once Setup is called,
// exposes the efficiency/cumulative-background curve and the signal
// resolution sigma.
type Analyzer struct {
	bins      map[float64]*bin
	totalSig  float64
	totalBkg  float64

	setup   bool
	sigma   float64
	// auxKeys/auxEff/auxBkg are parallel, sorted-by-prob arrays built
	// by Setup, giving (efficiency, cumBkg/totalBkg) per bin boundary.
	auxKeys []float64
	auxEff  []float64
	auxBkg  []float64
	// effKeys/effBkg are sorted by ascending efficiency, used by
	// BackgroundAt's lower-bound lookup (mirrors std::map<double,double>
	// m_effmap.lower_bound in the original).
	effKeys []float64
	effBkg  []float64
}

// New returns an empty Analyzer.
func New() *Analyzer {
	return &Analyzer{bins: make(map[float64]*bin)}
}

// Add bins prob (a predicted purity) and accumulates goodWt/badWt
// into it, following BackgroundVsEfficiency::add: the bin center is
// (floor(prob/BinSize)+0.5)*BinSize, and a weight is only folded in
// when positive.
func (a *Analyzer) Add(prob, goodWt, badWt float64) {
	a.setup = false
	key := (math.Floor(prob/BinSize) + 0.5) * BinSize
	b, ok := a.bins[key]
	if !ok {
		b = &bin{prob: key}
		a.bins[key] = b
	}
	if goodWt > 0 {
		b.signal += goodWt
	}
	if badWt > 0 {
		b.background += badWt
	}
	a.totalSig += goodWt
	a.totalBkg += badWt
}

// AddForest scores every record in values against f and bins the
// result, the table-driven constructor path
// (BackgroundVsEfficiency(dtree, data)) of the original.
func AddForest(a *Analyzer, f *forest.Forest, values []Record) error {
	for _, r := range values {
		purity, err := f.Eval(r)
		if err != nil {
			return err
		}
		a.Add(purity, r.Weight(true), r.Weight(false))
	}
	return nil
}

// Record is the minimal contract AddForest needs from a training
// record: feature access plus per-class weight.
type Record interface {
	forest.Values
	Weight(signal bool) float64
}

// Setup builds the efficiency/background integration tables and the
// signal resolution estimate from the accumulated bins. It is called
// automatically by BackgroundAt and Sigma if not already done.
func (a *Analyzer) Setup() {
	keys := make([]float64, 0, len(a.bins))
	for k := range a.bins {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	efficiency := 1.0
	cumBkg := a.totalBkg
	var inverseVariance float64

	a.auxKeys = a.auxKeys[:0]
	a.auxEff = a.auxEff[:0]
	a.auxBkg = a.auxBkg[:0]
	effMap := make(map[float64]float64)

	for _, k := range keys {
		b := a.bins[k]
		if a.totalSig > 0 {
			efficiency -= b.signal / a.totalSig
		}
		if efficiency < 0 {
			efficiency = 0
		}
		cumBkg -= b.background

		var cumFrac float64
		if a.totalBkg != 0 {
			cumFrac = cumBkg / a.totalBkg
		}

		a.auxKeys = append(a.auxKeys, k)
		a.auxEff = append(a.auxEff, efficiency)
		a.auxBkg = append(a.auxBkg, cumFrac)
		effMap[efficiency] = cumFrac

		if b.signal+b.background != 0 {
			inverseVariance += b.signal * b.signal / (b.signal + b.background)
		}
	}

	a.effKeys = a.effKeys[:0]
	for k := range effMap {
		a.effKeys = append(a.effKeys, k)
	}
	sort.Float64s(a.effKeys)
	a.effBkg = make([]float64, len(a.effKeys))
	for i, k := range a.effKeys {
		a.effBkg[i] = effMap[k]
	}

	if inverseVariance > 0 {
		a.sigma = math.Sqrt(a.totalSig / inverseVariance)
	}
	a.setup = true
}

// Sigma returns sqrt(totalSignal / inverseVariance), the signal
// resolution estimate.
func (a *Analyzer) Sigma() float64 {
	if !a.setup {
		a.Setup()
	}
	return a.sigma
}

// BackgroundAt returns the fraction of background weight remaining
// once the efficiency cut is applied at efficiencyCut: the
// cumulative-background fraction of the first bin whose efficiency is
// >= efficiencyCut, or 1.0 if the cut is past the most permissive bin
// (mirrors m_effmap.lower_bound returning end()).
func (a *Analyzer) BackgroundAt(efficiencyCut float64) float64 {
	if !a.setup {
		a.Setup()
	}
	idx := sort.SearchFloat64s(a.effKeys, efficiencyCut)
	if idx >= len(a.effKeys) {
		return 1.0
	}
	return a.effBkg[idx]
}

// TotalSignal returns the accumulated signal weight.
func (a *Analyzer) TotalSignal() float64 { return a.totalSig }

// TotalBackground returns the accumulated background weight.
func (a *Analyzer) TotalBackground() float64 { return a.totalBkg }

// Print writes the purity/weight/efficiency/cumulative-background
// table, matching BackgroundVsEfficiency::print's columns.
func (a *Analyzer) Print(w io.Writer, label string) error {
	if !a.setup {
		a.Setup()
	}
	header := "Purity map"
	if label != "" {
		header += " " + label
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "purity\tweight\teff\tcum_bkg"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "0\t0\t1\t%v\n", 1.0); err != nil {
		return err
	}
	for i, k := range a.auxKeys {
		b := a.bins[k]
		weight := b.signal + b.background
		if _, err := fmt.Fprintf(w, "%v\t%.4g\t%v\t%v\n", k, weight, a.auxEff[i], a.auxBkg[i]); err != nil {
			return err
		}
	}
	return nil
}
