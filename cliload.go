package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fermi-lat/classifier/classifyerr"
	"github.com/fermi-lat/classifier/loader"
	"github.com/fermi-lat/classifier/table"
)

// openLoader picks a loader.Loader by file extension: DuckDB for
// .parquet/.db files (an accelerated path for large tables), the
// dependency-free CSV reader for everything else.
func openLoader(path string) (loader.Loader, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".db":
		d, err := loader.NewDuckDB()
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	default:
		return loader.NewCSV(nil), func() error { return nil }, nil
	}
}

// loadClassTable reads path's rows restricted to subset and converts
// them into table.Records of the given class, using (and filling in,
// when empty) schema.
func loadClassTable(ctx context.Context, path string, schema *loader.Schema, subset loader.Subset, signal bool) ([]table.Record, error) {
	ld, closeLd, err := openLoader(path)
	if err != nil {
		return nil, err
	}
	defer closeLd()

	rows, err := ld.Load(ctx, path, schema, subset)
	if err != nil {
		return nil, err
	}

	featureSchema := &table.FeatureSchema{Names: schema.Names, UseWeights: schema.UseWeights}
	records := make([]table.Record, 0, len(rows))
	for _, raw := range rows {
		rec, err := table.NewRecord(featureSchema, raw, signal)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// loadTrainingTable builds one combined table.Table of signal and
// background events for the given variable list, restricted to
// subset, then normalizes each class's total weight to 1 so the first
// boosting round starts from a known baseline (AdaBoost's own
// per-round renormalization takes over from there).
func loadTrainingTable(ctx context.Context, vars []string, useWeights bool, signalPath, backgroundPath string, subset loader.Subset) (*table.Table, error) {
	schema := &loader.Schema{Names: vars, UseWeights: useWeights}

	sigRecords, err := loadClassTable(ctx, signalPath, schema, subset, true)
	if err != nil {
		return nil, classifyerr.IO(err, "loading signal file %s", signalPath)
	}
	bkgRecords, err := loadClassTable(ctx, backgroundPath, schema, subset, false)
	if err != nil {
		return nil, classifyerr.IO(err, "loading background file %s", backgroundPath)
	}

	featureSchema := &table.FeatureSchema{Names: schema.Names, UseWeights: schema.UseWeights}
	tbl := table.NewTable(featureSchema)
	tbl.Records = append(tbl.Records, sigRecords...)
	tbl.Records = append(tbl.Records, bkgRecords...)

	if err := tbl.Normalize(1.0, 1.0); err != nil {
		return nil, err
	}
	return tbl, nil
}
