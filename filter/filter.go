// Package filter builds a degenerate, weight-0 forest tree from an
// ordered list of feature cuts: each cut either rejects or continues,
// so the compiled tree evaluates to exactly 0 or 1, matching
// forest.Forest's filter-tree (weight <= 0) contract. It mirrors the
// original engine's Filter class, including its cut-file format with
// "#" comments and "@" include directives.
package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/forest"
)

// Builder compiles a sequence of AddCut calls into a forest.Forest
// filter tree, tracking feature names in the order first seen (and
// appending any not already known), matching Filter::find_index.
type Builder struct {
	Vars []string
	tree *forest.Forest
	id   int64
}

// NewBuilder returns a Builder that will append newly seen feature
// names to vars (vars may be non-empty to seed a known feature list).
func NewBuilder(vars []string) *Builder {
	return &Builder{Vars: vars, tree: forest.New(""), id: 0}
}

// AddCut compiles one cut ("name >= value" accepts records with
// name >= value; "name < value" accepts records with name < value)
// into the filter tree under construction, matching Filter::addCut:
// the rejected branch is a permanent 0 leaf, and the accepting branch
// becomes the new current node to attach the next cut beneath.
func (b *Builder) AddCut(name, op string, value float64) error {
	if b.id == 0 {
		if err := b.tree.AddNode(0, -10, 0.0); err != nil {
			return err
		}
		b.id = 1
	}
	var acceptIsLeft bool
	switch op {
	case ">=":
		acceptIsLeft = false
	case "<":
		acceptIsLeft = true
	default:
		return classifyerr.Invalid("filter: only '<' and '>=' are allowed, found %q", op)
	}
	idx := b.findIndex(name)
	if err := b.tree.AddNode(b.id, idx, value); err != nil {
		return err
	}
	rejectID := 2 * b.id
	acceptID := 2*b.id + 1
	if acceptIsLeft {
		// "<" accepts the left branch (value < cut), so the left child
		// is the continuation and the right is the dead end.
		rejectID, acceptID = acceptID, rejectID
	}
	if err := b.tree.AddNode(rejectID, -1, 0); err != nil {
		return err
	}
	b.id = acceptID
	return nil
}

func (b *Builder) findIndex(name string) int {
	for i, n := range b.Vars {
		if n == name {
			return i
		}
	}
	b.Vars = append(b.Vars, name)
	return len(b.Vars) - 1
}

// Close terminates the filter chain with a final accept leaf (value
// 1), matching Filter::close. Calling AddCutsFrom without a final
// Close leaves the chain open for more cuts; the compiled tree is not
// valid as a filter until Close has been called.
func (b *Builder) Close() error {
	if b.id > 0 {
		if err := b.tree.AddNode(b.id, -1, 1.0); err != nil {
			return err
		}
	}
	b.id = -1
	return nil
}

// Tree returns the compiled filter tree. Call Close first.
func (b *Builder) Tree() *forest.Forest {
	return b.tree
}

// AddCutsFrom reads cuts from a file: blank lines and lines starting
// with "#" are skipped, a line starting with "@" names another file
// (resolved relative to path's directory) whose cuts are spliced in
// first, and any other line is "name op value".
func (b *Builder) AddCutsFrom(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return classifyerr.IO(err, "opening cut file %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "@") {
			included := filepath.Join(filepath.Dir(path), trimmed[1:])
			if err := b.AddCutsFrom(included); err != nil {
				return err
			}
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != 3 {
			return classifyerr.Invalid("cut file %s: expected \"name op value\", got %q", path, line)
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return classifyerr.Invalid("cut file %s: invalid value %q", path, fields[2])
		}
		if err := b.AddCut(fields[0], fields[1], value); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return classifyerr.IO(err, "reading cut file %s", path)
	}
	return nil
}

// Print writes the filter as a sequence of "name op value" lines in
// cut order, matching DecisionTree::printFilter. It walks the single
// root's accepting chain: at each branch, the side with a non-dead
// child continues, printed with the operator that leads there.
func Print(w io.Writer, vars []string, root *forest.Node) error {
	n := root
	for n != nil && !n.IsLeaf() {
		name := "?"
		if n.Index >= 0 && n.Index < len(vars) {
			name = vars[n.Index]
		}
		isDeadLeaf := func(c *forest.Node) bool {
			return c != nil && c.IsLeaf() && c.Value == 0
		}
		if isDeadLeaf(n.Left) {
			// reject is "<", so this cut is "name >= value" and the
			// accepting branch continues to the right.
			if _, err := fmt.Fprintf(w, "%s >= %v\n", name, n.Value); err != nil {
				return err
			}
			n = n.Right
		} else {
			// reject is ">=", so this cut is "name < value" and the
			// accepting branch continues to the left.
			if _, err := fmt.Fprintf(w, "%s < %v\n", name, n.Value); err != nil {
				return err
			}
			n = n.Left
		}
	}
	return nil
}
