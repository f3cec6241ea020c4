package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestCrossTabAddBinning(t *testing.T) {
	var c CrossTab
	c.Add(0.9, true, 2.0)
	c.Add(0.1, true, 1.0)
	c.Add(0.8, false, 3.0)
	c.Add(0.2, false, 4.0)

	if c.SigAsSig != 2.0 || c.SigAsBkg != 1.0 || c.BkgAsSig != 3.0 || c.BkgAsBkg != 4.0 {
		t.Errorf("unexpected cross tab %+v", c)
	}
}

func TestCrossTabIgnoresZeroWeight(t *testing.T) {
	var c CrossTab
	c.Add(0.9, true, 0)
	if c.SigAsSig != 0 {
		t.Error("expected zero-weight record to be ignored")
	}
}

func TestWriteVarImpRanksDescending(t *testing.T) {
	var buf bytes.Buffer
	color.NoColor = true
	if err := WriteVarImp(&buf, []string{"a", "b", "c"}, []float64{0.1, 0.9, 0.5}, 3); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	// match each name at the start of its row; the header line
	// "Variable Importance" itself contains a, b and c
	ib := strings.Index(out, "\nb ")
	ic := strings.Index(out, "\nc ")
	ia := strings.Index(out, "\na ")
	if !(ib < ic && ic < ia) {
		t.Errorf("expected order b, c, a by descending score, got:\n%s", out)
	}
}

func TestWriteVarImpMismatchedLengths(t *testing.T) {
	if err := WriteVarImp(&bytes.Buffer{}, []string{"a"}, []float64{1, 2}, 5); err == nil {
		t.Error("expected error for mismatched names/scores length")
	}
}
