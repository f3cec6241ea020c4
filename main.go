// Command classifier trains and evaluates boosted binary-classification
// decision forests, following the engine this tool grew out of:
// signal/background event tables, Gini/entropy-impurity trees grown by
// bracketed threshold search, and AdaBoost-style forests of them.
package main

import (
	"os"
	"strings"

	"github.com/davecheney/profile"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	runProfile bool
	runID      string

	errColor = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "classifier",
	Short: "Boosted decision-tree classifier for signal/background event tables",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

		runID = uuid.NewString()
		logrus.WithField("run_id", runID).Debug("starting run")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&runProfile, "profile", false, "write a CPU profile for this run")

	// Accept underscores in place of hyphens in long flag names on
	// every subcommand, since the run-config YAML keys use underscores
	// but pflag's convention is hyphenated long flags.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(importXMLCmd)
	rootCmd.AddCommand(effMapCmd)
}

func main() {
	if runProfileFlagSet() {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	if err := rootCmd.Execute(); err != nil {
		errColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runProfileFlagSet does a cheap pre-scan of os.Args for --profile so
// the CPU profile covers cobra's own argument parsing too; pflag has
// not run yet at this point in main.
func runProfileFlagSet() bool {
	for _, a := range os.Args[1:] {
		if a == "--profile" {
			return true
		}
	}
	return false
}

func fatalf(format string, args ...any) {
	errColor.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
