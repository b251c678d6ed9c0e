package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var plannerName string // Planner for the run subcommand

// runCmd executes replications of a single planner
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run replications of one planner on a process",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		var cfg ExperimentConfig
		if configFile != "" {
			loaded, err := loadExperimentConfig(configFile)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			if len(loaded.Planners) != 1 {
				logrus.Fatalf("run expects exactly one planner in %s, got %d; use compare", configFile, len(loaded.Planners))
			}
			cfg = loaded
		} else {
			cfg = experimentFromFlags([]PlannerConfig{{Name: plannerName, Predicter: predicterName}})
		}

		if err := runExperiment(cfg); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func init() {
	registerExperimentFlags(runCmd)
	runCmd.Flags().StringVar(&plannerName, "planner", "greedy", "Planner: greedy, heuristic, predictive, spt")
	rootCmd.AddCommand(runCmd)
}
