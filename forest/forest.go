// Package forest holds the frozen, heap-addressed decision-tree
// ensemble used for scoring: the Forest model, its text
// serialization, and weighted/filter evaluation. A Forest is built
// either by freezing a grown tree (package tree), compiling a filter
// (package filter), or importing a PMML-like document (package
// xmlimport); none of those builders are needed just to evaluate or
// round-trip a forest to text, which is what this package provides.
package forest

import (
	"github.com/fermi-lat/classifier/classifyerr"
)

// Values is anything that can supply a feature value by column index,
// the same contract a table.Record satisfies.
type Values interface {
	Value(index int) float64
}

// Node is one node of a frozen evaluation tree. A leaf has Index -1
// and Value holding its purity (or score); a branch has Index >= 0
// naming the feature column it splits on, Value holding the cut
// threshold, and both children set.
type Node struct {
	Index int
	Value float64
	Left  *Node
	Right *Node
}

// IsLeaf reports whether n is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.Index == -1
}

// evaluate descends the tree rooted at n, returning the leaf value
// reached: left when the feature is below the cut, right otherwise.
func (n *Node) evaluate(v Values) float64 {
	for !n.IsLeaf() {
		if v.Value(n.Index) < n.Value {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// WeightedRoot is one tree in a Forest together with its voting
// weight. A weight <= 0 marks the tree as a filter: it must evaluate
// to exactly 0 or 1, short-circuiting the whole forest to 0 on
// failure and contributing nothing (not even its own weight) to the
// weighted sum on success.
type WeightedRoot struct {
	Weight float64
	Root   *Node
}

// Forest is a titled collection of weighted trees, addressed by
// heap-style node identifiers (root id 1, left child 2*id, right
// child 2*id+1) within each root.
type Forest struct {
	Title string
	Roots []WeightedRoot
}

// New returns an empty, titled Forest.
func New(title string) *Forest {
	return &Forest{Title: title}
}

// Eval evaluates the forest against v: filter trees (weight <= 0)
// short-circuit the whole result to 0 if they fail (evaluate to 0),
// are skipped (not accumulated) if they pass (evaluate to 1), and
// make Eval return an ErrInvalidForest error for any other value;
// voting trees (weight > 0) accumulate a weighted average. A forest with no voting trees that passes every
// filter returns the identity value 1.0.
func (f *Forest) Eval(v Values) (float64, error) {
	var weightedSum, sumOfWeights float64
	for _, wr := range f.Roots {
		if wr.Weight <= 0 {
			val := wr.Root.evaluate(v)
			switch val {
			case 0:
				return 0, nil
			case 1:
				continue
			default:
				return 0, classifyerr.Forest("filter tree evaluated to %v, expected 0 or 1", val)
			}
		}
		weightedSum += wr.Weight * wr.Root.evaluate(v)
		sumOfWeights += wr.Weight
	}
	if sumOfWeights != 0 {
		return weightedSum / sumOfWeights, nil
	}
	return 1.0, nil
}

// Find locates the node with the given heap identifier within root,
// descending by the bits of id from the highest set bit down.
func Find(root *Node, id int64) *Node {
	if id < 1 || root == nil {
		return nil
	}
	bit := int64(1)
	for bit<<1 <= id {
		bit <<= 1
	}
	n := root
	for bit >>= 1; bit > 0; bit >>= 1 {
		if n == nil {
			return nil
		}
		if id&bit == 0 {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n
}

// AddNode adds one record of the text serialization to the forest
// under construction: id == 0 opens a new weighted root (value is its
// weight); id == 1 creates that root's node; any other id locates its
// parent at id/2 and attaches the new node as its left (even id) or
// right (odd id) child. It mirrors DecisionTree::addNode in the
// original engine.
func (f *Forest) AddNode(id int64, index int, value float64) error {
	switch {
	case id == 0:
		f.Roots = append(f.Roots, WeightedRoot{Weight: value})
		return nil
	case id == 1:
		if len(f.Roots) == 0 {
			// an implicit weight-1.0 tree, for a file with no explicit
			// tree-weight record ahead of its root.
			f.Roots = append(f.Roots, WeightedRoot{Weight: 1.0})
		}
		f.Roots[len(f.Roots)-1].Root = &Node{Index: index, Value: value}
		return nil
	default:
		parent := Find(f.Roots[len(f.Roots)-1].Root, id/2)
		if parent == nil {
			return classifyerr.Forest("node %d references unknown parent %d", id, id/2)
		}
		n := &Node{Index: index, Value: value}
		if id%2 == 0 {
			parent.Left = n
		} else {
			parent.Right = n
		}
		return nil
	}
}

// AddTree appends other's roots to f. Both forests must share the
// same title (or one of them must be untitled), matching
// DecisionTree::addTree's guard against merging unrelated models.
func (f *Forest) AddTree(other *Forest) error {
	if f.Title != "" && other.Title != "" && f.Title != other.Title {
		return classifyerr.Forest("cannot merge forest %q into %q: titles differ", other.Title, f.Title)
	}
	if f.Title == "" {
		f.Title = other.Title
	}
	f.Roots = append(f.Roots, other.Roots...)
	return nil
}
