package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fermi-lat/classifier/filter"
	"github.com/fermi-lat/classifier/forest"
)

var filterVars []string

var filterCmd = &cobra.Command{
	Use:   "filter <cuts-file> <output.txt>",
	Short: "Compile an ordered cut file into a degenerate 0/1 filter forest",
	Args:  cobra.ExactArgs(2),
	RunE:  runFilter,
}

func init() {
	filterCmd.Flags().StringSliceVar(&filterVars, "vars", nil, "known feature names, in column order; names seen in the cut file but not listed here are appended")
}

func runFilter(cmd *cobra.Command, args []string) error {
	cutsPath, outPath := args[0], args[1]

	b := filter.NewBuilder(filterVars)
	if err := b.AddCutsFrom(cutsPath); err != nil {
		return err
	}
	if err := b.Close(); err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	return forest.WriteText(out, b.Tree())
}
