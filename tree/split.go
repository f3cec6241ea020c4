package tree

import (
	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/table"
)

// zoomMaxIter and zoomDivide parameterize the bracketed split search:
// each level scans zoomDivide+1 evenly spaced points across the
// current bracket, then narrows the bracket to +/- 1/zoomDivide of
// its width around the best point found, repeating for zoomMaxIter
// levels beyond the initial pass.
const (
	zoomDivide  = 8
	zoomMaxIter = 4
)

// scoreFunc scores a candidate split threshold on the currently
// sorted column, returning the combined child impurity (lower is
// better) at that threshold.
type scoreFunc func(x float64) float64

// zoomScan9 evaluates score at zoomDivide+1 evenly spaced points
// across [a, b] and returns the best (lowest-scoring) point.
func zoomScan9(a, b float64, score scoreFunc) (float64, float64) {
	step := (b - a) / zoomDivide
	bestX, bestG := a, score(a)
	for k := 1; k <= zoomDivide; k++ {
		x := a + float64(k)*step
		if g := score(x); g < bestG {
			bestX, bestG = x, g
		}
	}
	return bestX, bestG
}

// zoomSearch repeats the bracketed 9-point scan, narrowing around the
// best point found each round, for zoomMaxIter rounds after the
// initial pass.
func zoomSearch(a, b float64, score scoreFunc) (float64, float64) {
	bestX, bestG := zoomScan9(a, b, score)
	for iter := 0; iter < zoomMaxIter; iter++ {
		r := (b - a) / zoomDivide
		a, b = bestX-r, bestX+r
		bestX, bestG = zoomScan9(a, b, score)
	}
	return bestX, bestG
}

// minimizeOverColumn searches for the best split threshold on column
// col within tbl.Records[begin:end], which must already be sorted by
// that column. The initial bracket spans from the value at index
// floor(size/8) to the value at index size - floor(size/8) - 1,
// mirroring the original engine's no-argument minimize_gini. It
// returns ok=false only for a range of fewer than 2 records; a
// zero-width bracket (a constant column) yields that single value with
// ok=true, and the caller's MinSize check on the resulting children
// rejects it. It returns a NumericError if any value from the lower
// to the upper bracket index is not finite, matching Classifier.cpp's
// check for a non-finite feature value encountered during the split
// search.
func minimizeOverColumn(tbl *table.Table, begin, end, col int, score scoreFunc) (value, childImpurity float64, ok bool, err error) {
	size := end - begin
	if size < 2 {
		return 0, 0, false, nil
	}
	aIdx := begin + size/8
	bIdx := end - size/8 - 1
	if aIdx < begin {
		aIdx = begin
	}
	if bIdx >= end {
		bIdx = end - 1
	}
	for i := aIdx; i <= bIdx; i++ {
		if !table.IsFinite(tbl.Records[i].Features[col]) {
			return 0, 0, false, classifyerr.Numeric("column %d: non-finite feature value encountered during split search", col)
		}
	}
	a := tbl.Records[aIdx].Features[col]
	b := tbl.Records[bIdx].Features[col]
	if a > b {
		a, b = b, a
	}
	if a == b {
		return a, score(a), true, nil
	}
	value, childImpurity = zoomSearch(a, b, score)
	return value, childImpurity, true, nil
}
