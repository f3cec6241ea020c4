// Package table holds the Record/Table data model shared by tree
// induction, forest evaluation, and the efficiency analyzer.
//
// The original engine kept the feature schema (column names, the
// column used to key cumulative weights, whether column 0 of a raw
// row is an event weight rather than a feature) in process-wide
// static state on the Record type. That made every Record depend on
// whatever schema happened to have been installed last, which is a
// problem the moment two training runs with different feature sets
// share a process. Here the schema is an explicit value, built once
// per training run and passed into the constructors and sorts that
// need it, rather than a package-level variable.
package table

import (
	"math"

	"github.com/fermi-lat/classifier/classifyerr"
)

// FeatureSchema is the explicit training context: the feature names in
// column order, and whether the first raw column of an input row is a
// per-event weight rather than a feature value.
type FeatureSchema struct {
	Names      []string
	UseWeights bool
}

// NumFeatures returns the number of feature columns described by the
// schema.
func (s *FeatureSchema) NumFeatures() int {
	return len(s.Names)
}

// Index returns the column index of name, or -1 if name is not part
// of the schema.
func (s *FeatureSchema) Index(name string) int {
	for i, n := range s.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Record is one training or evaluation event: a feature vector, a
// signal/background label, and separate signal/background weights.
// Exactly one of SigWt, BkgWt is nonzero for any given record; keeping
// both fields (rather than a single Weight) mirrors the original's
// Record::weight(bool) accessor and makes AdaBoost's reweight step a
// symmetric scale of both fields regardless of which one is live.
type Record struct {
	Features []float64
	Signal   bool
	SigWt    float64
	BkgWt    float64
	EventWt  float64 // raw per-event weight read from column 0, 1.0 if unweighted
}

// NewRecord builds a Record from a raw feature row plus its class
// label, according to schema. If schema.UseWeights, raw[0] is taken
// as the event weight and raw[1:] as the feature vector; otherwise
// raw is the feature vector directly and the event weight is 1.
func NewRecord(schema *FeatureSchema, raw []float64, signal bool) (Record, error) {
	var eventWt float64 = 1.0
	features := raw
	if schema.UseWeights {
		if len(raw) < 1 {
			return Record{}, classifyerr.Invalid("record has no weight column")
		}
		eventWt = raw[0]
		features = raw[1:]
	}
	if len(features) != len(schema.Names) {
		return Record{}, classifyerr.Invalid("record has %d features, schema expects %d", len(features), len(schema.Names))
	}
	r := Record{Features: features, Signal: signal, EventWt: eventWt}
	if signal {
		r.SigWt = eventWt
	} else {
		r.BkgWt = eventWt
	}
	return r, nil
}

// Value returns the record's feature at index, satisfying the
// forest.Values contract so a Record can be scored directly.
func (r *Record) Value(index int) float64 {
	return r.Features[index]
}

// Weight returns the record's contribution to the given class: its
// own weight if the record's class matches wantSignal, else 0.
func (r *Record) Weight(wantSignal bool) float64 {
	if wantSignal {
		return r.SigWt
	}
	return r.BkgWt
}

// CurrentWeight returns the record's weight in its own class.
func (r *Record) CurrentWeight() float64 {
	return r.Weight(r.Signal)
}

// Reweight scales both the signal and background weight fields by
// factor. Only one of the two is ever nonzero for a given record, so
// this simply rescales whichever one is live; it is written this way
// (rather than branching on r.Signal) to mirror the original's
// Record::reweight, which always does exactly this.
func (r *Record) Reweight(factor float64) {
	r.SigWt *= factor
	r.BkgWt *= factor
}

// Table is an ordered collection of Records sharing one FeatureSchema.
type Table struct {
	Schema  *FeatureSchema
	Records []Record
}

// NewTable returns an empty Table bound to schema.
func NewTable(schema *FeatureSchema) *Table {
	return &Table{Schema: schema}
}

// TotalWeight returns the sum of weights for the requested class.
func (t *Table) TotalWeight(signal bool) float64 {
	var sum float64
	for i := range t.Records {
		sum += t.Records[i].Weight(signal)
	}
	return sum
}

// Normalize rescales every signal weight so the signal total equals
// signalTotal, and every background weight so the background total
// equals backgroundTotal. It returns classifyerr.ErrInvalidInput if
// either class currently sums to zero, matching the original's
// Table::normalize, which cannot divide by a zero total.
func (t *Table) Normalize(signalTotal, backgroundTotal float64) error {
	curSig := t.TotalWeight(true)
	curBkg := t.TotalWeight(false)
	if curSig == 0 {
		return classifyerr.Invalid("cannot normalize: total signal weight is zero")
	}
	if curBkg == 0 {
		return classifyerr.Invalid("cannot normalize: total background weight is zero")
	}
	sigScale := signalTotal / curSig
	bkgScale := backgroundTotal / curBkg
	for i := range t.Records {
		r := &t.Records[i]
		if r.Signal {
			r.SigWt *= sigScale
		} else {
			r.BkgWt *= bkgScale
		}
	}
	return nil
}

// SortByColumn reorders t.Records in place by ascending value of
// feature column col.
func (t *Table) SortByColumn(col int) {
	t.SortRangeByColumn(0, len(t.Records), col)
}

// SortRangeByColumn reorders t.Records[begin:end] in place by
// ascending value of feature column col, leaving the rest of the
// table untouched. This mirrors the original Node::sort, which
// reorders a contiguous range of a vector<Record> by one column ahead
// of a split search.
func (t *Table) SortRangeByColumn(begin, end, col int) {
	n := end - begin
	maxDepth := 0
	for i := n; i > 0; i >>= 1 {
		maxDepth++
	}
	maxDepth *= 2
	sortRecordsByColumn(t.Records, col, begin, end, maxDepth)
}

// LowerBound returns the smallest index i in [begin, end) such that
// t.Records[i].Features[col] >= x, assuming the range is already
// sorted by that column; returns end if no such index exists.
func (t *Table) LowerBound(begin, end, col int, x float64) int {
	lo, hi := begin, end
	for lo < hi {
		mid := (lo + hi) / 2
		if t.Records[mid].Features[col] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// PrefixWeights returns a length end-begin+1 slice of cumulative
// weight for the requested class over t.Records[begin:end], in
// current record order: prefix[i] is the total weight of the first i
// records of the range.
func (t *Table) PrefixWeights(begin, end int, signal bool) []float64 {
	prefix := make([]float64, end-begin+1)
	for i := begin; i < end; i++ {
		prefix[i-begin+1] = prefix[i-begin] + t.Records[i].Weight(signal)
	}
	return prefix
}

// IsFinite reports whether f is neither NaN nor infinite, matching
// the original's isFinite helper used to validate split brackets.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
