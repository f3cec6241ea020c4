package table

// sortRecordsByColumn reorders recs[a:b] in place by ascending value
// of feature column col, following the Bentley-McIlroy quicksort used
// by the standard library's sort package. It operates directly on the
// Record slice rather than a pair of parallel key/index arrays: no
// separate key extraction pass is needed before the sort, and no
// re-gather pass is needed after it, since sorting *is* reordering
// t.Records in place. Avoiding the interface call overhead on every
// comparison and swap is worth roughly 60% on the column sorts that
// dominate split search.
func sortRecordsByColumn(recs []Record, col, a, b, maxDepth int) {
	for b-a > 7 {
		if maxDepth == 0 {
			heapSortRecords(recs, col, a, b)
			return
		}
		maxDepth--
		mlo, mhi := doPivotRecords(recs, col, a, b)
		if mlo-a < b-mhi {
			sortRecordsByColumn(recs, col, a, mlo, maxDepth)
			a = mhi
		} else {
			sortRecordsByColumn(recs, col, mhi, b, maxDepth)
			b = mlo
		}
	}
	if b-a > 1 {
		insertionSortRecords(recs, col, a, b)
	}
}

func key(recs []Record, col, i int) float64 {
	return recs[i].Features[col]
}

func swapRecords(recs []Record, i, j int) {
	recs[i], recs[j] = recs[j], recs[i]
}

func insertionSortRecords(recs []Record, col, a, b int) {
	for i := a + 1; i < b; i++ {
		for j := i; j > a && key(recs, col, j) < key(recs, col, j-1); j-- {
			swapRecords(recs, j, j-1)
		}
	}
}

// siftDownRecords implements the heap property on recs[lo, hi), keyed
// by column col. first is an offset into the array where the root of
// the heap lies.
func siftDownRecords(recs []Record, col, lo, hi, first int) {
	root := lo
	for {
		child := 2*root + 1
		if child >= hi {
			break
		}
		if child+1 < hi && key(recs, col, first+child) < key(recs, col, first+child+1) {
			child++
		}
		if !(key(recs, col, first+root) < key(recs, col, first+child)) {
			return
		}
		swapRecords(recs, first+root, first+child)
		root = child
	}
}

func heapSortRecords(recs []Record, col, a, b int) {
	first := a
	lo := 0
	hi := b - a

	for i := (hi - 1) / 2; i >= 0; i-- {
		siftDownRecords(recs, col, i, hi, first)
	}
	for i := hi - 1; i >= 0; i-- {
		swapRecords(recs, first, first+i)
		siftDownRecords(recs, col, lo, i, first)
	}
}

// medianOfThreeRecords moves the median of recs[a], recs[b], recs[c]
// (compared by column col) into recs[a].
func medianOfThreeRecords(recs []Record, col, a, b, c int) {
	m0, m1, m2 := b, a, c
	if key(recs, col, m1) < key(recs, col, m0) {
		swapRecords(recs, m1, m0)
	}
	if key(recs, col, m2) < key(recs, col, m1) {
		swapRecords(recs, m2, m1)
	}
	if key(recs, col, m1) < key(recs, col, m0) {
		swapRecords(recs, m1, m0)
	}
}

func swapRangeRecords(recs []Record, a, b, n int) {
	for i := 0; i < n; i++ {
		swapRecords(recs, a+i, b+i)
	}
}

func doPivotRecords(recs []Record, col, lo, hi int) (midlo, midhi int) {
	m := lo + (hi-lo)/2
	if hi-lo > 40 {
		s := (hi - lo) / 8
		medianOfThreeRecords(recs, col, lo, lo+s, lo+2*s)
		medianOfThreeRecords(recs, col, m, m-s, m+s)
		medianOfThreeRecords(recs, col, hi-1, hi-1-s, hi-1-2*s)
	}
	medianOfThreeRecords(recs, col, lo, m, hi-1)

	pivot := lo
	a, b, c, d := lo+1, lo+1, hi, hi
	for {
		for b < c {
			if key(recs, col, b) < key(recs, col, pivot) {
				b++
			} else if !(key(recs, col, pivot) < key(recs, col, b)) {
				swapRecords(recs, a, b)
				a++
				b++
			} else {
				break
			}
		}
		for b < c {
			if key(recs, col, pivot) < key(recs, col, c-1) {
				c--
			} else if !(key(recs, col, c-1) < key(recs, col, pivot)) {
				swapRecords(recs, c-1, d-1)
				c--
				d--
			} else {
				break
			}
		}
		if b >= c {
			break
		}
		swapRecords(recs, b, c-1)
		b++
		c--
	}

	n := minRange(b-a, a-lo)
	swapRangeRecords(recs, lo, b-n, n)

	n = minRange(hi-d, d-c)
	swapRangeRecords(recs, c, hi-n, n)

	return lo + b - a, hi - (d - c)
}

func minRange(a, b int) int {
	if a < b {
		return a
	}
	return b
}
