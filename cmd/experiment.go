package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bpsim/bpsim/sim"
	"github.com/bpsim/bpsim/sim/plan"
	"github.com/bpsim/bpsim/sim/predict"
	"github.com/bpsim/bpsim/sim/process"
)

var (
	// Shared experiment flags; --config replaces all of them.
	configFile    string
	processName   string
	predicterName string
	replications  int
	horizon       float64
	warmup        float64
	baseSeed      int64
	parallelism   int
	spread        float64
	servers       int
	cases         int
	showProgress  bool
)

// registerExperimentFlags binds the shared experiment flags to a subcommand.
func registerExperimentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "Experiment YAML file; other experiment flags are ignored when set")
	cmd.Flags().StringVar(&processName, "process", "mmc", "Process: mmc, imbalanced, sequential, scheduling (custom needs --config)")
	cmd.Flags().StringVar(&predicterName, "predicter", "", "Predicter for the predictive planner: imbalanced, perfect")
	cmd.Flags().IntVar(&replications, "replications", 100, "Number of replications")
	cmd.Flags().Float64Var(&horizon, "horizon", 50000, "Simulated-time horizon per replication")
	cmd.Flags().Float64Var(&warmup, "warmup", 10000, "Simulated time excluded from the statistics")
	cmd.Flags().Int64Var(&baseSeed, "seed", 42, "Base seed; replication i runs with seed+i")
	cmd.Flags().IntVar(&parallelism, "parallelism", runtime.GOMAXPROCS(0), "Replications in flight at once; 1 runs serially")
	cmd.Flags().Float64Var(&spread, "spread", 1.0, "Imbalanced process: resource performance spread in [0, 2)")
	cmd.Flags().IntVar(&servers, "servers", 2, "MMc process: number of resources")
	cmd.Flags().IntVar(&cases, "cases", 100, "Scheduling process: batch size")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar per planner")
}

// ExperimentConfig is the YAML experiment definition shared by run and
// compare. Absent fields keep the defaults of defaultExperimentConfig.
type ExperimentConfig struct {
	Seed         int64           `yaml:"seed"`
	Horizon      float64         `yaml:"horizon"`
	Warmup       float64         `yaml:"warmup"`
	Replications int             `yaml:"replications"`
	Parallelism  int             `yaml:"parallelism"`
	Process      ProcessConfig   `yaml:"process"`
	Planners     []PlannerConfig `yaml:"planners"`
}

// ProcessConfig selects a process by name. Spread, Servers and Cases
// parameterize the built-ins that use them; Custom carries a full inline
// process definition for name "custom".
type ProcessConfig struct {
	Name    string              `yaml:"name"`
	Spread  float64             `yaml:"spread"`
	Servers int                 `yaml:"servers"`
	Cases   int                 `yaml:"cases"`
	Custom  *process.CustomSpec `yaml:"custom"`
}

// PlannerConfig selects a planner by name. Predicter, Mean and Spread apply
// to the predictive planner only; Mean and Spread default to 18 and 1.
type PlannerConfig struct {
	Name      string  `yaml:"name"`
	Predicter string  `yaml:"predicter"`
	Mean      float64 `yaml:"mean"`
	Spread    float64 `yaml:"spread"`
}

func defaultExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		Seed:         42,
		Horizon:      50000,
		Warmup:       10000,
		Replications: 100,
		Parallelism:  runtime.GOMAXPROCS(0),
		Process:      ProcessConfig{Name: "mmc", Servers: 2, Spread: 1.0, Cases: 100},
	}
}

// loadExperimentConfig reads and strictly decodes an experiment file on top
// of the defaults. Unknown fields are rejected.
func loadExperimentConfig(path string) (ExperimentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ExperimentConfig{}, fmt.Errorf("reading experiment config: %w", err)
	}
	return parseExperimentConfig(data)
}

func parseExperimentConfig(data []byte) (ExperimentConfig, error) {
	cfg := defaultExperimentConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return ExperimentConfig{}, fmt.Errorf("parsing experiment config: %w", err)
	}
	cfg.applyPlannerDefaults()
	return cfg, nil
}

func (c *ExperimentConfig) applyPlannerDefaults() {
	for i := range c.Planners {
		if c.Planners[i].Mean == 0 {
			c.Planners[i].Mean = 18
		}
		if c.Planners[i].Spread == 0 {
			c.Planners[i].Spread = 1.0
		}
	}
}

// experimentFromFlags assembles the experiment the shared flags describe.
func experimentFromFlags(planners []PlannerConfig) ExperimentConfig {
	cfg := defaultExperimentConfig()
	cfg.Seed = baseSeed
	cfg.Horizon = horizon
	cfg.Warmup = warmup
	cfg.Replications = replications
	cfg.Parallelism = parallelism
	cfg.Process = ProcessConfig{Name: processName, Spread: spread, Servers: servers, Cases: cases}
	cfg.Planners = planners
	cfg.applyPlannerDefaults()
	return cfg
}

// ValidProcesses is the set of recognized process names.
var ValidProcesses = map[string]bool{"mmc": true, "imbalanced": true, "sequential": true, "scheduling": true, "custom": true}

// ValidPlanners is the set of recognized planner names.
var ValidPlanners = map[string]bool{"greedy": true, "heuristic": true, "predictive": true, "spt": true}

// ValidPredicters is the set of recognized predicter names.
var ValidPredicters = map[string]bool{"imbalanced": true, "perfect": true}

// Validate checks names against the registries and parameter ranges before
// anything runs.
func (c *ExperimentConfig) Validate() error {
	if c.Replications < 1 {
		return fmt.Errorf("replications must be at least 1, got %d", c.Replications)
	}
	if !(c.Horizon > 0) {
		return fmt.Errorf("horizon must be positive, got %f", c.Horizon)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup must be non-negative, got %f", c.Warmup)
	}
	if !ValidProcesses[c.Process.Name] {
		return fmt.Errorf("unknown process %q", c.Process.Name)
	}
	if c.Process.Name == "custom" && c.Process.Custom == nil {
		return fmt.Errorf("process custom requires a custom: section")
	}
	if len(c.Planners) == 0 {
		return fmt.Errorf("at least one planner is required")
	}
	for _, p := range c.Planners {
		if !ValidPlanners[p.Name] {
			return fmt.Errorf("unknown planner %q", p.Name)
		}
		if p.Name == "predictive" && !ValidPredicters[p.Predicter] {
			return fmt.Errorf("planner predictive requires a predicter (imbalanced, perfect), got %q", p.Predicter)
		}
		if p.Name != "predictive" && p.Predicter != "" {
			return fmt.Errorf("planner %q does not take a predicter", p.Name)
		}
	}
	return nil
}

// buildProcessFactory validates the process parameters once and returns a
// factory producing a fresh adapter per replication.
func buildProcessFactory(cfg ProcessConfig) (func() sim.Process, error) {
	switch cfg.Name {
	case "mmc":
		if _, err := process.NewMMc(cfg.Servers); err != nil {
			return nil, err
		}
		servers := cfg.Servers
		return func() sim.Process { p, _ := process.NewMMc(servers); return p }, nil
	case "imbalanced":
		if _, err := process.NewImbalanced(cfg.Spread); err != nil {
			return nil, err
		}
		spread := cfg.Spread
		return func() sim.Process { p, _ := process.NewImbalanced(spread); return p }, nil
	case "sequential":
		return func() sim.Process { return process.NewSequential() }, nil
	case "scheduling":
		if _, err := process.NewScheduling(cfg.Cases); err != nil {
			return nil, err
		}
		n := cfg.Cases
		return func() sim.Process { p, _ := process.NewScheduling(n); return p }, nil
	case "custom":
		spec := *cfg.Custom
		if _, err := process.NewCustom(spec); err != nil {
			return nil, err
		}
		return func() sim.Process { p, _ := process.NewCustom(spec); return p }, nil
	default:
		return nil, fmt.Errorf("unknown process %q", cfg.Name)
	}
}

func buildPredicter(cfg PlannerConfig) (sim.Predicter, error) {
	switch cfg.Predicter {
	case "imbalanced":
		return predict.NewImbalanced(cfg.Mean, cfg.Spread)
	case "perfect":
		return predict.NewPerfect(), nil
	default:
		return nil, fmt.Errorf("unknown predicter %q", cfg.Predicter)
	}
}

// buildPlannerFactory returns the planner factory and its display label.
func buildPlannerFactory(cfg PlannerConfig) (func() sim.Planner, string, error) {
	switch cfg.Name {
	case "greedy":
		return func() sim.Planner { return plan.NewGreedy() }, "greedy", nil
	case "heuristic":
		return func() sim.Planner { return plan.NewHeuristic() }, "heuristic", nil
	case "spt":
		return func() sim.Planner { return plan.NewShortestProcessingTime() }, "spt", nil
	case "predictive":
		pred, err := buildPredicter(cfg)
		if err != nil {
			return nil, "", err
		}
		if _, err := plan.NewPredictive(pred); err != nil {
			return nil, "", err
		}
		return func() sim.Planner { p, _ := plan.NewPredictive(pred); return p }, "predictive+" + cfg.Predicter, nil
	default:
		return nil, "", fmt.Errorf("unknown planner %q", cfg.Name)
	}
}

// runExperiment executes every planner of the experiment against the same
// process and seeds, printing one metrics block per planner.
func runExperiment(cfg ExperimentConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	processFactory, err := buildProcessFactory(cfg.Process)
	if err != nil {
		return err
	}

	for _, pcfg := range cfg.Planners {
		plannerFactory, label, err := buildPlannerFactory(pcfg)
		if err != nil {
			return err
		}

		logrus.Infof("running %d replications of %s on %s, horizon %g, warmup %g",
			cfg.Replications, label, cfg.Process.Name, cfg.Horizon, cfg.Warmup)

		opts := sim.Options{
			Process:      processFactory,
			Planner:      plannerFactory,
			Reporter:     func() sim.Reporter { return sim.NewStatsReporter(cfg.Warmup) },
			Horizon:      cfg.Horizon,
			Replications: cfg.Replications,
			BaseSeed:     cfg.Seed,
			Parallelism:  cfg.Parallelism,
		}
		var bar *progressbar.ProgressBar
		if showProgress {
			bar = newProgressBar(cfg.Replications, label)
			opts.OnResult = func(sim.ReplicationResult) { _ = bar.Add(1) }
		}

		results, err := sim.Replicate(context.Background(), opts)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			logrus.Warnf("%s: %v", label, err)
		}
		printResults(label, results)
	}
	return nil
}

// newProgressBar builds the per-planner replication progress bar.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// printResults prints the aggregated metrics of one planner, sorted by
// metric name.
func printResults(label string, results []sim.ReplicationResult) {
	agg := sim.Aggregate(sim.Summaries(results))
	keys := make([]string, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("=== %s ===\n", label)
	for _, k := range keys {
		est := agg[k]
		fmt.Printf("%-30s : %12.4f ± %.4f\n", k, est.Mean, est.HalfWidth)
	}
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("%-30s : %d of %d\n", "failed replications", failed, len(results))
	}
	fmt.Println()
}
