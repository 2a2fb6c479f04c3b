// Command train fits the win classifier on the training table and saves it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/logger"
	"github.com/yourusername/grid-predictor/internal/service"
)

var (
	configFile  string
	datasetPath string
	modelPath   string
	algorithm   string
	seed        int64

	cfg *config.Config
	log *logrus.Logger
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&datasetPath, "dataset", "", "Training table to read")
	rootCmd.Flags().StringVar(&modelPath, "model", "", "Where to write the fitted model")
	rootCmd.Flags().StringVar(&algorithm, "algorithm", "", "Classifier to fit (random_forest or logistic)")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for the forest")
}

var rootCmd = &cobra.Command{
	Use:           "train",
	Short:         "Fit the race win classifier",
	Long:          `Reads dataset.csv, fits a classifier on qualifying position and past wins, and writes the model file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewTrainingService(cfg.Model, log)
		report, err := svc.Train(cmd.Context(), cfg.Data.DatasetPath, cfg.Model.Path)
		if err != nil {
			return err
		}

		fmt.Printf("Trained %s on %d rows in %s\n", report.Algorithm, report.Samples, report.Duration.Round(time.Millisecond))
		fmt.Printf("  accuracy:      %.4f\n", report.Metrics.Accuracy)
		fmt.Printf("  log loss:      %.4f\n", report.Metrics.LogLoss)
		fmt.Printf("  positive rate: %.4f\n", report.Metrics.PositiveRate)
		fmt.Printf("Model saved to %s\n", report.ModelPath)
		return nil
	},
}

func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Data.DatasetPath = datasetPath
	}
	if flags.Changed("model") {
		cfg.Model.Path = modelPath
	}
	if flags.Changed("algorithm") {
		cfg.Model.Algorithm = algorithm
	}
	if flags.Changed("seed") {
		cfg.Model.Seed = seed
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
