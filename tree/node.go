package tree

import (
	"github.com/fermi-lat/classifier/criterion"
	"github.com/fermi-lat/classifier/forest"
	"github.com/fermi-lat/classifier/table"
)

// Node is one node of a growth-side decision tree: a contiguous range
// of a shared, mutably-sorted table.Table, its weighted signal and
// background totals, its impurity, and (once split) the winning
// feature/threshold and its two children.
type Node struct {
	id int64

	tbl        *table.Table
	begin, end int

	totSig, totBkg float64
	impurity       float64

	leaf bool

	splitCol      int
	splitVal      float64
	splitAt       int // index in tbl.Records where the right child begins
	childImpurity float64

	left, right *Node
}

// newNode constructs a growth node over tbl.Records[begin:end],
// computing its weighted totals and impurity under crit.
func newNode(tbl *table.Table, crit criterion.Measure, begin, end int, id int64) *Node {
	var sig, bkg float64
	for i := begin; i < end; i++ {
		r := &tbl.Records[i]
		sig += r.Weight(true)
		bkg += r.Weight(false)
	}
	return &Node{
		id:       id,
		tbl:      tbl,
		begin:    begin,
		end:      end,
		totSig:   sig,
		totBkg:   bkg,
		impurity: crit(sig, bkg),
		leaf:     true,
	}
}

// Size returns the number of records in the node's range.
func (n *Node) Size() int {
	return n.end - n.begin
}

// Purity returns the node's signal purity, s/(s+b), used as the leaf
// score of a frozen forest node.
func (n *Node) Purity() float64 {
	total := n.totSig + n.totBkg
	if total == 0 {
		return 0
	}
	return n.totSig / total
}

// IsLeaf reports whether n has not been split.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// walk visits n, then n.right, then n.left, matching the original
// engine's Node::accept(Visitor&) order. Anything that needs to
// reproduce the reference print/rating order (variable importance,
// debug printing) should use this, not a left-first walk.
func (n *Node) walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	n.right.walk(visit)
	n.left.walk(visit)
}

// freeze converts the growth node (and its subtree) into a frozen
// forest.Node: branches keep their split column/threshold, leaves
// carry their purity as the evaluation value.
func (n *Node) freeze() *forest.Node {
	if n.leaf {
		return &forest.Node{Index: -1, Value: n.Purity()}
	}
	return &forest.Node{
		Index: n.splitCol,
		Value: n.splitVal,
		Left:  n.left.freeze(),
		Right: n.right.freeze(),
	}
}
