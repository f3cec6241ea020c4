package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fermi-lat/classifier/efficiency"
	"github.com/fermi-lat/classifier/forest"
	"github.com/fermi-lat/classifier/loader"
	"github.com/fermi-lat/classifier/report"
)

var (
	effMapVars     []string
	effMapWeighted bool
)

var effMapCmd = &cobra.Command{
	Use:   "effmap <forest.txt> <signal-file> <background-file>",
	Short: "Print the background-vs-efficiency map and signal resolution for a forest",
	Args:  cobra.ExactArgs(3),
	RunE:  runEffMap,
}

func init() {
	effMapCmd.Flags().StringSliceVar(&effMapVars, "vars", nil, "feature column names, in order")
	effMapCmd.Flags().BoolVar(&effMapWeighted, "weighted", false, "first column of each input file is a per-event weight")
}

func runEffMap(cmd *cobra.Command, args []string) error {
	forestPath, sigPath, bkgPath := args[0], args[1], args[2]

	ff, err := os.Open(forestPath)
	if err != nil {
		return err
	}
	defer ff.Close()
	f, err := forest.ReadText(ff)
	if err != nil {
		return err
	}

	ctx := context.Background()
	tbl, err := loadTrainingTable(ctx, effMapVars, effMapWeighted, sigPath, bkgPath, loader.All)
	if err != nil {
		return err
	}

	analyzer := efficiency.New()
	recs := make([]efficiency.Record, len(tbl.Records))
	for i := range tbl.Records {
		recs[i] = &tbl.Records[i]
	}
	if err := efficiency.AddForest(analyzer, f, recs); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := analyzer.Print(out, f.Title); err != nil {
		return err
	}
	return report.WriteEfficiencySummary(out, f.Title, report.EfficiencySummary{
		TotalSignal:     analyzer.TotalSignal(),
		TotalBackground: analyzer.TotalBackground(),
		Sigma:           analyzer.Sigma(),
	})
}
