// Package config holds the tunables of one solver run: RNG seed, time
// and iteration budget, whether branch-and-bound pruning is enabled,
// early stop on feasibility, the exploration constant and the progress
// logging cadence. Institutional weightings are not configured here;
// they come only from the instance file. It can be loaded from a YAML
// file for batch runs or bound directly to cobra flags for interactive
// use, mirroring the teacher's cli.go flag-variable block.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is the full set of knobs the driver reads.
type Config struct {
	Seed             int64         `yaml:"seed"`
	TimeLimit        time.Duration `yaml:"time_limit"`
	IterationLimit   int           `yaml:"iteration_limit"`
	Pruning          bool          `yaml:"pruning"`
	StopOnFeasible   bool          `yaml:"stop_on_feasible"`
	ExplorationConst float64       `yaml:"exploration_const"`
	ProgressEvery    int           `yaml:"progress_every"`
}

// Default mirrors the teacher's cli.go flag defaults translated to
// this solver's knobs: a finite wall-clock budget, pruning and
// progress logging both on.
func Default() Config {
	return Config{
		Seed:             1,
		TimeLimit:        10 * time.Minute,
		IterationLimit:   0,
		Pruning:          true,
		StopOnFeasible:   false,
		ExplorationConst: 1, // rr/opt/mcts/simple.py's selection_score has no separate multiplier on its explore term
		ProgressEvery:    1000,
	}
}

// Load reads a YAML config file, starting from Default for any field
// the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%q: %w", path, err)
	}
	return cfg, nil
}

// BindFlags registers cfg's fields on cmd's flag set, the same way the
// teacher's cmdGen.Flags().*Var calls bind package-level variables in
// cli.go.
func BindFlags(cmd *cobra.Command, cfg *Config) {
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed for the search")
	cmd.Flags().DurationVarP(&cfg.TimeLimit, "time", "t", cfg.TimeLimit, "wall-clock budget for the search (0 disables the time limit)")
	cmd.Flags().IntVar(&cfg.IterationLimit, "iterations", cfg.IterationLimit, "maximum MCTS iterations (0 disables the iteration limit)")
	cmd.Flags().BoolVar(&cfg.Pruning, "prune", cfg.Pruning, "enable branch-and-bound pruning")
	cmd.Flags().BoolVar(&cfg.StopOnFeasible, "stop-on-feasible", cfg.StopOnFeasible, "terminate as soon as a hard=0 solution is found")
	cmd.Flags().Float64Var(&cfg.ExplorationConst, "exploration", cfg.ExplorationConst, "UCB exploration constant")
	cmd.Flags().IntVar(&cfg.ProgressEvery, "progress-every", cfg.ProgressEvery, "log a progress line every N iterations (0 disables)")
}

// Validate reports a configuration error before the solver starts.
func (c Config) Validate() error {
	if c.TimeLimit <= 0 && c.IterationLimit <= 0 {
		return fmt.Errorf("config: at least one of time_limit or iteration_limit must be positive")
	}
	if c.ExplorationConst < 0 {
		return fmt.Errorf("config: exploration_const must be non-negative")
	}
	return nil
}
