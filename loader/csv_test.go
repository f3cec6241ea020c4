package loader

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/fermi-lat/classifier/classifyerr"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAllNoHeader(t *testing.T) {
	path := writeCSV(t, "1.0,2.0\n3.0,4.0\n5.0,6.0\n")
	schema := &Schema{}
	rows, err := NewCSV(nil).Load(context.Background(), path, schema, All)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestLoadDetectsHeader(t *testing.T) {
	path := writeCSV(t, "e,theta\n1.0,2.0\n3.0,4.0\n")
	schema := &Schema{}
	rows, err := NewCSV(nil).Load(context.Background(), path, schema, All)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(rows))
	}
	if len(schema.Names) != 2 || schema.Names[0] != "e" {
		t.Errorf("expected header names [e theta], got %v", schema.Names)
	}
}

func TestLoadEvenOddSplit(t *testing.T) {
	path := writeCSV(t, "1.0\n2.0\n3.0\n4.0\n")
	schema := &Schema{}
	even, err := NewCSV(nil).Load(context.Background(), path, schema, Even)
	if err != nil {
		t.Fatal(err)
	}
	odd, err := NewCSV(nil).Load(context.Background(), path, schema, Odd)
	if err != nil {
		t.Fatal(err)
	}
	if len(even) != 2 || len(odd) != 2 {
		t.Fatalf("expected 2/2 even/odd split of 4 rows, got %d/%d", len(even), len(odd))
	}
	if even[0][0] != 1.0 || odd[0][0] != 2.0 {
		t.Errorf("expected even to start at row 0 (1.0) and odd at row 1 (2.0), got %v / %v", even, odd)
	}
}

func TestLoadRejectsNonFiniteValue(t *testing.T) {
	path := writeCSV(t, "1.0,2.0\n3.0,NaN\n")
	schema := &Schema{}
	_, err := NewCSV(nil).Load(context.Background(), path, schema, All)
	if err == nil {
		t.Fatal("expected an error for a non-finite feature value")
	}
	if !errors.Is(err, classifyerr.ErrNumeric) {
		t.Errorf("expected a NumericError, got %v", err)
	}
}

func TestLoadRandomIsIndependentPerRow(t *testing.T) {
	path := writeCSV(t, "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")
	schema := &Schema{}
	rng := rand.New(rand.NewSource(42))
	rows, err := NewCSV(rng).Load(context.Background(), path, schema, Random)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) == 0 || len(rows) == 10 {
		t.Errorf("expected a random subset strictly between 0 and 10 rows for this seed, got %d", len(rows))
	}
}
