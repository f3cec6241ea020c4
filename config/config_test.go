package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
title: gamma-hadron
variables: [e, theta, chisq]
signal: sig.txt
background: bkg.txt
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Impurity != "gini" || cfg.Rounds != 1 || cfg.TrainOn != "even" || cfg.EvalOn != "odd" {
		t.Errorf("expected defaults to apply, got %+v", cfg)
	}
}

func TestLoadRejectsMissingTitle(t *testing.T) {
	path := writeConfig(t, `
variables: [e]
signal: sig.txt
background: bkg.txt
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing title")
	}
}

func TestLoadRejectsBadImpurity(t *testing.T) {
	path := writeConfig(t, `
title: x
variables: [e]
signal: s.txt
background: b.txt
impurity: madeup
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid impurity")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
title: x
variables: [e, theta]
signal: s.txt
background: b.txt
impurity: entropy
rounds: 20
beta: 0.8
train_on: all
eval_on: all
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Impurity != "entropy" || cfg.Rounds != 20 || cfg.Beta != 0.8 {
		t.Errorf("expected overrides to apply, got %+v", cfg)
	}
}
