// Package xmlimport converts a PMML-like tree ensemble document into
// a forest.Forest: each TreeModel becomes one weighted root (weight
// 1/N so an ensemble of N imported trees votes as an unweighted
// average), its SimplePredicate-keyed branches are reassigned to
// heap-addressed node ids, and each leaf's yprob vector is indexed by
// the document's specifiedCategory to produce the frozen node's value.
package xmlimport

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/forest"
)

// document is the root PMML-like element.
type document struct {
	XMLName    xml.Name     `xml:"PredictEngineNode"`
	ColumnInfo []columnInfo `xml:"ColumnInfo"`
	TreeList   treeList     `xml:"TreeList"`
}

// columnInfo lists, for the dependent (target) column, the ordered
// set of category levels a leaf's yprob vector is indexed by —
// the Go analogue of DecisionTreeBuilder's ColumnInfo/Level scan that
// resolves m_yProbIndex from specifiedCategory.
type columnInfo struct {
	Role   string  `xml:"role,attr"`
	Levels []level `xml:"Level"`
}

type level struct {
	Value string `xml:"value,attr"`
}

type treeList struct {
	Trees []treeModel `xml:"TreeModel"`
}

type treeModel struct {
	Name string  `xml:"name,attr"`
	Root xmlNode `xml:"Node"`
}

// xmlNode is either a branch (has a SimplePredicate and exactly two
// child Node elements) or a leaf (has yprob/score attributes and no
// children).
type xmlNode struct {
	Predicate *simplePredicate `xml:"SimplePredicate"`
	Children  []xmlNode        `xml:"Node"`
	YProb     string           `xml:"yprob,attr"`
	Score     *float64         `xml:"score,attr"`
}

type simplePredicate struct {
	Field    string  `xml:"field,attr"`
	Operator string  `xml:"operator,attr"`
	Value    float64 `xml:"value,attr"`
}

// Import decodes r as a PMML-like tree ensemble and compiles it into
// a forest.Forest. category names the dependent column's level whose
// probability a leaf's yprob vector should contribute; it is resolved
// once, document-wide, against ColumnInfo's Level list (defaulting to
// index 0 if no dependent ColumnInfo or no matching Level is found,
// matching DecisionTreeBuilder::parseForest's m_yProbIndex default).
// featureIndex resolves a SimplePredicate's field name to a feature
// column index (the same role Filter.find_index plays for cut files).
func Import(r io.Reader, category string, featureIndex func(name string) int) (*forest.Forest, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, classifyerr.XML("decoding tree ensemble: %v", err)
	}
	if len(doc.TreeList.Trees) == 0 {
		return nil, classifyerr.XML("document has no TreeModel elements")
	}

	yProbIndex := resolveCategoryIndex(doc, category)

	f := forest.New(docTitle(doc))
	weight := 1.0 / float64(len(doc.TreeList.Trees))

	for _, tm := range doc.TreeList.Trees {
		root, err := convertNode(&tm.Root, yProbIndex, featureIndex)
		if err != nil {
			return nil, err
		}
		f.Roots = append(f.Roots, forest.WeightedRoot{Weight: weight, Root: root})
	}
	return f, nil
}

// resolveCategoryIndex finds category's position within the dependent
// ColumnInfo's ordered Level list. It returns 0 (the original's
// default m_yProbIndex) when no dependent ColumnInfo, or no Level
// named category, is found.
func resolveCategoryIndex(doc document, category string) int {
	for _, ci := range doc.ColumnInfo {
		if ci.Role != "dependent" {
			continue
		}
		for i, lvl := range ci.Levels {
			if lvl.Value == category {
				return i
			}
		}
	}
	return 0
}

func docTitle(doc document) string {
	if len(doc.TreeList.Trees) > 0 {
		return doc.TreeList.Trees[0].Name
	}
	return ""
}

func convertNode(n *xmlNode, yProbIndex int, featureIndex func(string) int) (*forest.Node, error) {
	if n.Predicate == nil {
		return convertLeaf(n, yProbIndex)
	}
	if len(n.Children) != 2 {
		return nil, classifyerr.XML("branch node on field %q must have exactly 2 children, has %d", n.Predicate.Field, len(n.Children))
	}

	idx := featureIndex(n.Predicate.Field)

	// PMML's lessThan/greaterOrEqual predicates describe the TRUE
	// child; the forest's own evaluate always takes "< value" to the
	// left. Normalize so the left child is always the one PMML's
	// document order puts second when the operator is
	// greaterOrEqual (first child true means feature >= value, i.e.
	// the right branch in our convention).
	trueIsLeft := n.Predicate.Operator == "lessThan"
	var leftXML, rightXML *xmlNode
	if trueIsLeft {
		leftXML, rightXML = &n.Children[0], &n.Children[1]
	} else if n.Predicate.Operator == "greaterOrEqual" {
		leftXML, rightXML = &n.Children[1], &n.Children[0]
	} else {
		return nil, classifyerr.XML("unsupported predicate operator %q", n.Predicate.Operator)
	}

	left, err := convertNode(leftXML, yProbIndex, featureIndex)
	if err != nil {
		return nil, err
	}
	right, err := convertNode(rightXML, yProbIndex, featureIndex)
	if err != nil {
		return nil, err
	}
	return &forest.Node{Index: idx, Value: n.Predicate.Value, Left: left, Right: right}, nil
}

// convertLeaf reads a leaf's yprob attribute (a whitespace-separated
// list of probabilities, one per dependent-column level) and takes
// the entry at yProbIndex, matching DecisionTreeBuilder::parseNode's
// "addNode(nodeId, -1, weight[m_yProbIndex])". A leaf with no yprob
// attribute is a regression-style prediction node and falls back to
// its bare score attribute.
func convertLeaf(n *xmlNode, yProbIndex int) (*forest.Node, error) {
	sList := strings.TrimSpace(n.YProb)
	if sList == "" {
		if n.Score != nil {
			return &forest.Node{Index: -1, Value: *n.Score}, nil
		}
		return nil, classifyerr.XML("leaf has neither a yprob nor a score attribute")
	}

	fields := strings.Fields(sList)
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, classifyerr.XML("leaf yprob %q: invalid value %q", sList, field)
		}
		values[i] = v
	}
	if yProbIndex < 0 || yProbIndex >= len(values) {
		return nil, classifyerr.XML("leaf yprob %q has no entry at resolved category index %d", sList, yProbIndex)
	}
	return &forest.Node{Index: -1, Value: values[yProbIndex]}, nil
}
