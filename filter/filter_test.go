package filter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type vec []float64

func (v vec) Value(i int) float64 { return v[i] }

func TestAddCutGreaterEqualAccepts(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.AddCut("e", ">=", 10.0); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	f := b.Tree()
	f.Title = "t"
	got, err := f.Eval(vec{15.0})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("expected cut to accept e=15 >= 10, got %v", got)
	}
	got, err = f.Eval(vec{5.0})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("expected cut to reject e=5 >= 10, got %v", got)
	}
}

func TestAddCutLessThanAccepts(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.AddCut("e", "<", 10.0); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	f := b.Tree()
	f.Title = "t"
	got, err := f.Eval(vec{5.0})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("expected cut to accept e=5 < 10, got %v", got)
	}
}

func TestAddCutInvalidOperator(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.AddCut("e", "!=", 10.0); err == nil {
		t.Error("expected error for unsupported operator")
	}
}

func TestMultipleCutsChain(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.AddCut("e", ">=", 10.0); err != nil {
		t.Fatal(err)
	}
	if err := b.AddCut("theta", "<", 1.0); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	f := b.Tree()
	f.Title = "t"
	got, _ := f.Eval(vec{15.0, 0.5})
	if got != 1 {
		t.Errorf("expected both cuts to pass, got %v", got)
	}
	got, _ = f.Eval(vec{15.0, 2.0})
	if got != 0 {
		t.Errorf("expected second cut to reject, got %v", got)
	}
}

func TestAddCutsFromWithIncludeAndComments(t *testing.T) {
	dir := t.TempDir()
	included := filepath.Join(dir, "base.cuts")
	if err := os.WriteFile(included, []byte("theta < 1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(dir, "main.cuts")
	content := "# comment\ne >= 10.0\n\n@base.cuts\n"
	if err := os.WriteFile(main, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewBuilder(nil)
	if err := b.AddCutsFrom(main); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if len(b.Vars) != 2 {
		t.Fatalf("expected 2 vars discovered, got %v", b.Vars)
	}
}

func TestPrintRendersCuts(t *testing.T) {
	b := NewBuilder(nil)
	b.AddCut("e", ">=", 10.0)
	b.Close()
	f := b.Tree()
	var buf strings.Builder
	if err := Print(&buf, b.Vars, f.Roots[0].Root); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "e >= 10") {
		t.Errorf("expected printed cut to mention e >= 10, got %q", buf.String())
	}
}
