// Package tree grows a single weighted binary-classification decision
// tree: recursive binary splitting driven by a bracketed zoom-scan
// search for the best threshold on each feature column, picking the
// feature/threshold combination that minimizes the combined child
// impurity.
package tree

import (
	"runtime"
	"sync"

	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/criterion"
	"github.com/fermi-lat/classifier/forest"
	"github.com/fermi-lat/classifier/table"
)

// MinSize is the default minimum node size below which a node is
// never split, matching the original engine's Node::s_minsize.
const MinSize = 100

// Tree configures how a decision tree is grown: its title (carried
// into the frozen forest for DecisionTree::addTree-style title
// checks), impurity measure, and minimum node size.
type Tree struct {
	Title   string
	Crit    criterion.Measure
	MinSize int
}

// New returns a Tree with the given title, using crit as its impurity
// measure. A non-positive minSize selects the default MinSize; any
// positive value, including one below MinSize, is used as given.
func New(title string, crit criterion.Measure, minSize int) *Tree {
	if minSize <= 0 {
		minSize = MinSize
	}
	return &Tree{Title: title, Crit: crit, MinSize: minSize}
}

// Grown holds the fitted root of a tree, built by Build.
type Grown struct {
	tree *Tree
	root *Node
}

// Build grows a tree over tbl, splitting every node whose best
// candidate split leaves both children with at least MinSize records;
// the split is not required to lower the impurity. If
// recursive is false, only the root node is evaluated for a single
// split (used by tests exercising the split search in isolation).
func (t *Tree) Build(tbl *table.Table, recursive bool) (*Grown, error) {
	if tbl.Schema.NumFeatures() == 0 {
		return nil, classifyerr.Invalid("cannot grow a tree: table has no feature columns")
	}
	if len(tbl.Records) == 0 {
		return nil, classifyerr.Invalid("cannot grow a tree: table has no records")
	}
	root := newNode(tbl, t.Crit, 0, len(tbl.Records), 1)
	if err := t.growNode(tbl, root, recursive); err != nil {
		return nil, err
	}
	return &Grown{tree: t, root: root}, nil
}

// growNode attempts to split n, recursing into both children when
// recursive is true and the split succeeded.
func (t *Tree) growNode(tbl *table.Table, n *Node, recursive bool) error {
	did, err := t.split(tbl, n)
	if err != nil {
		return err
	}
	if !did || !recursive {
		return nil
	}
	if err := t.growNode(tbl, n.left, recursive); err != nil {
		return err
	}
	return t.growNode(tbl, n.right, recursive)
}

// columnResult is the split search's concurrently-produced result for
// one feature column.
type columnResult struct {
	col           int
	value         float64
	childImpurity float64
	ok            bool
}

// split evaluates every feature column as a split candidate for n
// and, if the best candidate leaves both sides with at least MinSize
// records, partitions n's range and attaches n.left/n.right. Per-column search may run concurrently
// (implementation detail only): results are collected into a fixed
// per-column slice and the winner is chosen by a single deterministic
// scan over that slice, so the split chosen never depends on
// goroutine scheduling.
func (t *Tree) split(tbl *table.Table, n *Node) (bool, error) {
	if n.Size() < t.MinSize {
		return false, nil
	}
	nFeat := tbl.Schema.NumFeatures()

	results := make([]columnResult, nFeat)

	nWorkers := runtime.GOMAXPROCS(0)
	if nWorkers > nFeat {
		nWorkers = nFeat
	}
	if nWorkers < 1 {
		nWorkers = 1
	}

	cols := make(chan int)
	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error
	wg.Add(nWorkers)
	for w := 0; w < nWorkers; w++ {
		go func() {
			defer wg.Done()
			for col := range cols {
				res, err := t.evalColumn(tbl, n, col)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				results[col] = res
			}
		}()
	}
	for col := 0; col < nFeat; col++ {
		cols <- col
	}
	close(cols)
	wg.Wait()
	if firstErr != nil {
		return false, firstErr
	}

	bestCol := -1
	var bestVal, bestImpurity float64
	for _, r := range results {
		if !r.ok {
			continue
		}
		if bestCol == -1 || r.childImpurity < bestImpurity {
			bestCol, bestVal, bestImpurity = r.col, r.value, r.childImpurity
		}
	}
	if bestCol == -1 {
		return false, nil
	}

	tbl.SortRangeByColumn(n.begin, n.end, bestCol)
	splitAt := tbl.LowerBound(n.begin, n.end, bestCol, bestVal)
	if splitAt-n.begin < t.MinSize || n.end-splitAt < t.MinSize {
		return false, nil
	}

	n.splitCol = bestCol
	n.splitVal = bestVal
	n.splitAt = splitAt
	n.childImpurity = bestImpurity
	n.leaf = false
	n.left = newNode(tbl, t.Crit, n.begin, splitAt, 2*n.id)
	n.right = newNode(tbl, t.Crit, splitAt, n.end, 2*n.id+1)
	return true, nil
}

// evalColumn sorts a private copy of n's range by col (so concurrent
// per-column searches never reorder the shared table), then runs the
// bracketed zoom search for the threshold minimizing combined child
// impurity. A candidate that would leave either side with zero weight
// is scored as n's own impurity (no improvement), matching the
// original engine's Node::gini, which does the same.
func (t *Tree) evalColumn(tbl *table.Table, n *Node, col int) (columnResult, error) {
	sub := &table.Table{Schema: tbl.Schema, Records: append([]table.Record(nil), tbl.Records[n.begin:n.end]...)}
	size := len(sub.Records)
	sub.SortByColumn(col)
	prefSig := sub.PrefixWeights(0, size, true)
	prefBkg := sub.PrefixWeights(0, size, false)

	score := func(x float64) float64 {
		idx := sub.LowerBound(0, size, col, x)
		leftSig, leftBkg := prefSig[idx], prefBkg[idx]
		rightSig, rightBkg := n.totSig-leftSig, n.totBkg-leftBkg
		if leftSig+leftBkg == 0 || rightSig+rightBkg == 0 {
			return n.impurity
		}
		return t.Crit(leftSig, leftBkg) + t.Crit(rightSig, rightBkg)
	}

	val, imp, ok, err := minimizeOverColumn(sub, 0, size, col, score)
	if err != nil {
		return columnResult{}, err
	}
	return columnResult{col: col, value: val, childImpurity: imp, ok: ok}, nil
}

// Freeze converts g into a frozen, heap-addressed forest.Forest
// holding exactly one weighted root with the given weight.
func (g *Grown) Freeze(weight float64) *forest.Forest {
	f := forest.New(g.tree.Title)
	f.Roots = append(f.Roots, forest.WeightedRoot{Weight: weight, Root: g.root.freeze()})
	return f
}

// Select descends g from the root to a leaf according to v's feature
// values, the growth-side analogue of forest.Node.evaluate used
// before a tree is frozen (e.g. by the AdaBoost driver, which must
// score and reweight records between boosting rounds).
func (g *Grown) Select(v forest.Values) *Node {
	n := g.root
	for !n.leaf {
		if v.Value(n.splitCol) < n.splitVal {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n
}

// Probability returns g's predicted purity for v.
func (g *Grown) Probability(v forest.Values) float64 {
	return g.Select(v).Purity()
}

// Error returns the fraction of tbl's total weight misclassified by
// g at the given purity cut: a record is misclassified if its
// predicted probability exceeds purityCut but it is background, or
// falls at or below purityCut but it is signal.
func (g *Grown) Error(tbl *table.Table, purityCut float64) float64 {
	var wrong, total float64
	for i := range tbl.Records {
		r := &tbl.Records[i]
		classifiedSignal := g.Probability(r) > purityCut
		w := r.CurrentWeight()
		total += w
		if classifiedSignal != r.Signal {
			wrong += w
		}
	}
	if total == 0 {
		return 0
	}
	return wrong / total
}

// VariableImportance returns, for each feature column, the total
// impurity improvement (parent impurity minus combined child
// impurity) attributed to splits on that column, in the self-right-
// left visit order the original engine's rateVariables used.
func (g *Grown) VariableImportance(nFeatures int) []float64 {
	imp := make([]float64, nFeatures)
	g.root.walk(func(n *Node) {
		if n.leaf {
			return
		}
		imp[n.splitCol] += n.impurity - n.childImpurity
	})
	return imp
}

// Root exposes the grown tree's root node, mainly for tests and
// diagnostic printing.
func (g *Grown) Root() *Node {
	return g.root
}
