package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fermi-lat/classifier/forest"
	"github.com/fermi-lat/classifier/loader"
	"github.com/fermi-lat/classifier/table"
)

var (
	predictVars     []string
	predictWeighted bool
)

var predictCmd = &cobra.Command{
	Use:   "predict <forest.txt> <data-file>",
	Short: "Score every row of a data file against a trained forest",
	Args:  cobra.ExactArgs(2),
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringSliceVar(&predictVars, "vars", nil, "feature column names, in order (required unless the data file has a header row)")
	predictCmd.Flags().BoolVar(&predictWeighted, "weighted", false, "first column of the data file is a per-event weight")
}

func runPredict(cmd *cobra.Command, args []string) error {
	forestPath, dataPath := args[0], args[1]

	ff, err := os.Open(forestPath)
	if err != nil {
		return err
	}
	defer ff.Close()
	f, err := forest.ReadText(ff)
	if err != nil {
		return err
	}

	schema := &loader.Schema{Names: predictVars, UseWeights: predictWeighted}
	ld, closeLd, err := openLoader(dataPath)
	if err != nil {
		return err
	}
	defer closeLd()

	rows, err := ld.Load(context.Background(), dataPath, schema, loader.All)
	if err != nil {
		return err
	}

	featureSchema := &table.FeatureSchema{Names: schema.Names, UseWeights: schema.UseWeights}
	out := cmd.OutOrStdout()
	for _, raw := range rows {
		rec, err := table.NewRecord(featureSchema, raw, true)
		if err != nil {
			return err
		}
		p, err := f.Eval(&rec)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p)
	}
	return nil
}
