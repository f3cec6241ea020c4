// Package config decodes a training/evaluation run file: the
// Go-native replacement for the original TrainingInfo's hand-parsed
// key/value text format, expressed as YAML struct tags in the idiom
// macawi-ai-Strigoi uses for its own run configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fermi-lat/classifier/classifyerr"
)

// RunConfig describes one training run: which files to read, how to
// split them, and which impurity criterion and boosting schedule to
// use.
type RunConfig struct {
	Title      string   `yaml:"title"`
	Variables  []string `yaml:"variables"`
	Signal     string   `yaml:"signal"`
	Background string   `yaml:"background"`
	Weighted   bool     `yaml:"weighted"`
	Impurity   string   `yaml:"impurity"`   // "gini" or "entropy"
	Beta       float64  `yaml:"beta"`       // AdaBoost learning rate
	Rounds     int      `yaml:"rounds"`     // number of boosting rounds
	MinSize    int      `yaml:"min_size"`   // minimum node size to split
	TrainOn    string   `yaml:"train_on"`   // "even", "odd", "all", "random"
	EvalOn     string   `yaml:"eval_on"`
	Output     string   `yaml:"output"`     // forest text file to write
}

// Load reads and validates a RunConfig from path.
func Load(path string) (*RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, classifyerr.IO(err, "reading run config %s", path)
	}

	cfg := &RunConfig{
		Impurity: "gini",
		Beta:     0.5,
		Rounds:   1,
		MinSize:  100,
		TrainOn:  "even",
		EvalOn:   "odd",
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, classifyerr.Invalid("parsing run config %s: %v", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *RunConfig) validate() error {
	if c.Title == "" {
		return classifyerr.Invalid("run config: title is required")
	}
	if len(c.Variables) == 0 {
		return classifyerr.Invalid("run config: at least one variable is required")
	}
	if c.Signal == "" || c.Background == "" {
		return classifyerr.Invalid("run config: both signal and background files are required")
	}
	if c.Impurity != "gini" && c.Impurity != "entropy" {
		return classifyerr.Invalid("run config: impurity must be gini or entropy, got %q", c.Impurity)
	}
	if c.Rounds < 1 {
		return classifyerr.Invalid("run config: rounds must be >= 1, got %d", c.Rounds)
	}
	switch c.TrainOn {
	case "even", "odd", "all", "random":
	default:
		return classifyerr.Invalid("run config: train_on must be one of even/odd/all/random, got %q", c.TrainOn)
	}
	switch c.EvalOn {
	case "even", "odd", "all", "random":
	default:
		return classifyerr.Invalid("run config: eval_on must be one of even/odd/all/random, got %q", c.EvalOn)
	}
	return nil
}
