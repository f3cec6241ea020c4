// Package boost drives the AdaBoost-style ensemble training loop: fit
// a tree, score it against the training table, reweight misclassified
// records, renormalize, repeat. The reweighting step intentionally
// departs from textbook AdaBoost: it scales both a misclassified
// record's signal and background weight fields together (only one of
// which is ever nonzero), not a single class weight, because that is
// what the original engine's AdaBoost::operator() does.
package boost

import (
	"math"

	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/criterion"
	"github.com/fermi-lat/classifier/forest"
	"github.com/fermi-lat/classifier/table"
	"github.com/fermi-lat/classifier/tree"
)

// PurityCut is the probability threshold used to classify a record as
// signal during boosting, matching the original engine's
// AdaBoost::s_purity.
const PurityCut = 0.5

// Config holds the parameters for one boosting run.
type Config struct {
	Title     string
	Crit      criterion.Measure
	MinSize   int
	Beta      float64
	Rounds    int
	Recursive bool
}

// Round is the per-round outcome reported back to the caller for
// logging/progress purposes.
type Round struct {
	Index      int
	Error      float64
	Weight     float64
	Importance []float64
}

// Run grows cfg.Rounds trees over tbl, boosting between rounds, and
// returns the combined weighted forest plus a per-round report. tbl
// is mutated in place (its weights are rescaled each round); callers
// that need the original weights afterward should pass a copy.
func Run(tbl *table.Table, cfg Config, onRound func(Round)) (*forest.Forest, error) {
	if cfg.Rounds < 1 {
		return nil, classifyerr.Invalid("boost.Run requires at least one round, got %d", cfg.Rounds)
	}
	result := forest.New(cfg.Title)

	for i := 0; i < cfg.Rounds; i++ {
		tr := tree.New(cfg.Title, cfg.Crit, cfg.MinSize)
		grown, err := tr.Build(tbl, cfg.Recursive)
		if err != nil {
			return nil, err
		}

		err1 := grown.Error(tbl, PurityCut)
		if err1 <= 0 || err1 >= 1 {
			return nil, classifyerr.Invalid("boosting round %d: error rate %v is out of (0,1), cannot compute boost weight", i, err1)
		}
		factor := math.Exp(cfg.Beta * math.Log((1-err1)/err1))

		reweight(tbl, grown, factor)

		roots := grown.Freeze(factor)
		if err := result.AddTree(roots); err != nil {
			return nil, err
		}

		if onRound != nil {
			onRound(Round{
				Index:      i,
				Error:      err1,
				Weight:     factor,
				Importance: grown.VariableImportance(tbl.Schema.NumFeatures()),
			})
		}
	}

	return result, nil
}

// reweight scales the weight of every record grown misclassifies by
// factor, then renormalizes every record's weight so the table's
// total weight sums to 1, following AdaBoost::operator() exactly:
// the renormalization divides ALL records (not just the
// misclassified ones) by the post-reweight total.
func reweight(tbl *table.Table, grown *tree.Grown, factor float64) {
	for i := range tbl.Records {
		r := &tbl.Records[i]
		classifiedSignal := grown.Probability(r) > PurityCut
		if classifiedSignal != r.Signal {
			r.Reweight(factor)
		}
	}
	var sum float64
	for i := range tbl.Records {
		sum += tbl.Records[i].CurrentWeight()
	}
	if sum == 0 {
		return
	}
	invSum := 1.0 / sum
	for i := range tbl.Records {
		tbl.Records[i].Reweight(invSum)
	}
}
