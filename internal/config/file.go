package config

import "time"

// EvaluatorConfig holds the evaluator section of the configuration file.
type EvaluatorConfig struct {
	// Command overrides the evaluator executable.
	Command string `yaml:"command,omitempty"`

	// Namespace overrides the attribute set prefix.
	Namespace string `yaml:"namespace,omitempty"`

	// Args are extra arguments passed after "eval".
	Args []string `yaml:"args,omitempty"`

	// Timeout bounds each evaluator call, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// StrictExitStatus drops identifiers whose evaluator exits non-zero.
	StrictExitStatus *bool `yaml:"strictExitStatus,omitempty"`
}

// File represents the structure of the .nixlicense configuration file.
// Every key is optional; absent keys keep the value already in Config.
type File struct {
	Input        string `yaml:"input,omitempty"`
	Output       string `yaml:"output,omitempty"`
	Distribution string `yaml:"distribution,omitempty"`

	// History enables run history recording.
	History *bool `yaml:"history,omitempty"`

	// DBDir overrides the run history directory.
	DBDir string `yaml:"dbDir,omitempty"`

	Evaluator EvaluatorConfig `yaml:"evaluator,omitempty"`
}

// Apply copies the values set in the file onto cfg.
func (f *File) Apply(cfg *Config) {
	if f.Input != "" {
		cfg.InputPath = f.Input
	}
	if f.Output != "" {
		cfg.OutputPath = f.Output
	}
	if f.Distribution != "" {
		cfg.DistributionPath = f.Distribution
	}
	if f.History != nil {
		cfg.History = *f.History
	}
	if f.DBDir != "" {
		cfg.DBDir = f.DBDir
	}

	ev := f.Evaluator
	if ev.Command != "" {
		cfg.Command = ev.Command
	}
	if ev.Namespace != "" {
		cfg.Namespace = ev.Namespace
	}
	if len(ev.Args) > 0 {
		cfg.EvalArgs = append([]string(nil), ev.Args...)
	}
	if ev.Timeout != 0 {
		cfg.Timeout = ev.Timeout
	}
	if ev.StrictExitStatus != nil {
		cfg.StrictExitStatus = *ev.StrictExitStatus
	}
}
