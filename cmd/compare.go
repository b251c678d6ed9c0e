package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var plannerNames []string // Planners for the compare subcommand

// compareCmd runs several planners against identical seeds
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare planners on the same process and seeds",
	Long: `compare runs each planner with the same base seed, so every planner
sees identical arrival streams, payloads and processing-time draws; metric
differences are attributable to planning alone.`,
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		var cfg ExperimentConfig
		if configFile != "" {
			loaded, err := loadExperimentConfig(configFile)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			cfg = loaded
		} else {
			planners := make([]PlannerConfig, len(plannerNames))
			for i, name := range plannerNames {
				planners[i] = PlannerConfig{Name: name}
				if name == "predictive" {
					planners[i].Predicter = predicterName
				}
			}
			cfg = experimentFromFlags(planners)
		}

		if err := runExperiment(cfg); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func init() {
	registerExperimentFlags(compareCmd)
	compareCmd.Flags().StringSliceVar(&plannerNames, "planners", []string{"greedy", "heuristic"}, "Comma-separated planners to compare")
	rootCmd.AddCommand(compareCmd)
}
