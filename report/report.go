// Package report writes the fixed-format text summaries that close
// out a training or evaluation run: a cross tabulation of predicted
// vs. actual class, a variable importance ranking, and an efficiency
// summary. Layout follows the teacher's model.go report functions;
// headers and warnings are colorized with fatih/color the way a CLI
// built against that library typically distinguishes section titles
// from data.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	warnColor   = color.New(color.FgYellow)
)

// CrossTab holds the four weighted bins of a predicted-vs-actual
// signal/background tabulation: t[actual][predicted], true meaning
// "signal".
type CrossTab struct {
	SigAsSig, SigAsBkg float64
	BkgAsSig, BkgAsBkg float64
}

// Add classifies one record by its forest probability p (predicted
// signal when p > 0.5) against its known class and weight.
func (c *CrossTab) Add(p float64, isSignal bool, weight float64) {
	if weight == 0 {
		return
	}
	switch {
	case isSignal && p > 0.5:
		c.SigAsSig += weight
	case isSignal:
		c.SigAsBkg += weight
	case p > 0.5:
		c.BkgAsSig += weight
	default:
		c.BkgAsBkg += weight
	}
}

// WriteCrossTab renders the 2x2 predicted-vs-actual table.
func WriteCrossTab(w io.Writer, c CrossTab) error {
	headerColor.Fprintln(w, "Cross tab: predicted vs actual signal and background")
	fmt.Fprintln(w, "type\t     predicted")
	fmt.Fprintln(w, "\tsignal\tbackgnd")
	fmt.Fprintf(w, "signal\t%.5g\t%.5g\n", c.SigAsSig, c.SigAsBkg)
	fmt.Fprintf(w, "backgnd\t%.5g\t%.5g\n", c.BkgAsSig, c.BkgAsBkg)
	_, err := fmt.Fprintln(w, "-------------------------------------")
	return err
}

// WriteVarImp ranks names by score descending and prints the top
// maxVars entries. A score of exactly 0 for every variable in names
// is flagged as a warning: it usually means the forest was never
// actually grown (an empty or single-leaf tree).
func WriteVarImp(w io.Writer, names []string, scores []float64, maxVars int) error {
	if len(names) != len(scores) {
		return fmt.Errorf("report: %d names but %d scores", len(names), len(scores))
	}
	headerColor.Fprintln(w, "Variable Importance")

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	if maxVars > len(idx) || maxVars <= 0 {
		maxVars = len(idx)
	}

	allZero := true
	for _, s := range scores {
		if s != 0 {
			allZero = false
			break
		}
	}
	if allZero && len(scores) > 0 {
		warnColor.Fprintln(w, "warning: all variable importances are zero")
	}

	for _, i := range idx[:maxVars] {
		fmt.Fprintf(w, "%-15s: %-10.4f\n", names[i], scores[i])
	}
	_, err := fmt.Fprintln(w)
	return err
}

// EfficiencySummary is the subset of an efficiency.Analyzer's output
// that a report needs to print: totals plus the signal resolution.
type EfficiencySummary struct {
	TotalSignal, TotalBackground float64
	Sigma                        float64
}

// WriteEfficiencySummary prints the totals and resolution figure the
// way BackgroundVsEfficiency::print closes its table.
func WriteEfficiencySummary(w io.Writer, label string, s EfficiencySummary) error {
	headerColor.Fprintf(w, "Efficiency summary: %s\n", label)
	fmt.Fprintf(w, "total signal:     %.5g\n", s.TotalSignal)
	fmt.Fprintf(w, "total background: %.5g\n", s.TotalBackground)
	_, err := fmt.Fprintf(w, "signal resolution (sigma): %.4g\n", s.Sigma)
	return err
}
