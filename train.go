package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fermi-lat/classifier/boost"
	"github.com/fermi-lat/classifier/config"
	"github.com/fermi-lat/classifier/criterion"
	"github.com/fermi-lat/classifier/forest"
	"github.com/fermi-lat/classifier/loader"
	"github.com/fermi-lat/classifier/report"
)

var trainCmd = &cobra.Command{
	Use:   "train <run.yaml>",
	Short: "Grow a boosted forest from a run configuration file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrain,
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	trainSubset, err := loader.ParseSubset(cfg.TrainOn)
	if err != nil {
		return err
	}
	evalSubset, err := loader.ParseSubset(cfg.EvalOn)
	if err != nil {
		return err
	}

	ctx := context.Background()
	tbl, err := loadTrainingTable(ctx, cfg.Variables, cfg.Weighted, cfg.Signal, cfg.Background, trainSubset)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"run_id":  runID,
		"records": len(tbl.Records),
		"title":   cfg.Title,
	}).Info("loaded training table")

	boostCfg := boost.Config{
		Title:     cfg.Title,
		Crit:      criterion.ByName(cfg.Impurity),
		MinSize:   cfg.MinSize,
		Beta:      cfg.Beta,
		Rounds:    cfg.Rounds,
		Recursive: true,
	}

	totalImportance := make([]float64, len(cfg.Variables))
	f, err := boost.Run(tbl, boostCfg, func(r boost.Round) {
		logrus.WithFields(logrus.Fields{
			"run_id": runID,
			"round":  r.Index,
			"error":  r.Error,
			"weight": r.Weight,
		}).Info("boosting round complete")
		for i, v := range r.Importance {
			totalImportance[i] += v
		}
	})
	if err != nil {
		return err
	}

	if err := report.WriteVarImp(cmd.OutOrStdout(), cfg.Variables, totalImportance, 0); err != nil {
		return err
	}

	if cfg.Output != "" {
		out, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := forest.WriteText(out, f); err != nil {
			return err
		}
	}

	return evaluateAndReport(ctx, cmd, cfg, f, evalSubset)
}

func evaluateAndReport(ctx context.Context, cmd *cobra.Command, cfg *config.RunConfig, f *forest.Forest, evalSubset loader.Subset) error {
	evalTbl, err := loadTrainingTable(ctx, cfg.Variables, cfg.Weighted, cfg.Signal, cfg.Background, evalSubset)
	if err != nil {
		return err
	}

	var xtab report.CrossTab
	for i := range evalTbl.Records {
		r := &evalTbl.Records[i]
		p, err := f.Eval(r)
		if err != nil {
			return err
		}
		xtab.Add(p, r.Signal, r.CurrentWeight())
	}

	out := cmd.OutOrStdout()
	return report.WriteCrossTab(out, xtab)
}
