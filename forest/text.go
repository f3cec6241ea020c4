package forest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fermi-lat/classifier/classifyerr"
)

// leafIndex and weightIndex are the two sentinel values used for the
// index column of a serialized node: a leaf carries no split
// feature (-1), and a tree-weight record (id always 0) carries no
// node at all (-10).
const (
	leafIndex   = -1
	weightIndex = -10
)

// ReadText parses the tab-indented "id index value" text format
// described by the original engine's DecisionTree constructor. The
// first line is the forest title; remaining non-blank lines are three
// whitespace-separated fields. Each root is normally opened by an
// id=0,index=-10 weight record; the record may be left out only ahead
// of the first root, which then gets an implicit weight of 1.0. A
// later id=1 record with no weight record of its own replaces the
// current tree's root rather than opening a new tree.
func ReadText(r io.Reader) (*Forest, error) {
	scanner := bufio.NewScanner(r)
	f := &Forest{}

	if !scanner.Scan() {
		return nil, classifyerr.IO(scanner.Err(), "reading forest title")
	}
	f.Title = strings.TrimSpace(scanner.Text())

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, classifyerr.Forest("line %d: expected 3 fields, got %d", lineNo, len(fields))
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, classifyerr.Forest("line %d: invalid id %q", lineNo, fields[0])
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, classifyerr.Forest("line %d: invalid index %q", lineNo, fields[1])
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, classifyerr.Forest("line %d: invalid value %q", lineNo, fields[2])
		}
		if err := f.AddNode(id, index, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, classifyerr.IO(err, "reading forest body")
	}
	return f, nil
}

// WriteText serializes f in the text format: title, then for each
// root a "0\t-10\t<weight>" record followed by the root's nodes in
// self, left (2*id), right (2*id+1) order — the same order
// DecisionTree::printNode emits, independent of the growth-side
// Visitor order used elsewhere.
func WriteText(w io.Writer, f *Forest) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, f.Title); err != nil {
		return classifyerr.IO(err, "writing forest title")
	}
	for _, wr := range f.Roots {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%v\n", 0, weightIndex, wr.Weight); err != nil {
			return classifyerr.IO(err, "writing tree weight")
		}
		if err := printNode(bw, wr.Root, 1); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return classifyerr.IO(err, "flushing forest")
	}
	return nil
}

func printNode(w *bufio.Writer, n *Node, id int64) error {
	if n == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%d\t%d\t%v\n", id, n.Index, n.Value); err != nil {
		return classifyerr.IO(err, "writing node %d", id)
	}
	if err := printNode(w, n.Left, 2*id); err != nil {
		return err
	}
	return printNode(w, n.Right, 2*id+1)
}
