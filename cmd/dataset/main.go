// Command dataset merges the historical race tables into the flat training
// table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/dataset"
	"github.com/yourusername/grid-predictor/internal/logger"
)

var (
	configFile string
	dataDir    string
	outputPath string
	previewN   int

	cfg *config.Config
	log *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding races.csv, results.csv, drivers.csv and qualifying.csv")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path of the training table to write")
	checkCmd.Flags().IntVarP(&previewN, "rows", "n", 5, "Rows to preview from each table, overriding data.preview_rows")

	rootCmd.AddCommand(checkCmd)
}

var rootCmd = &cobra.Command{
	Use:           "dataset",
	Short:         "Build the training table from historical results",
	Long:          `Joins results, races, drivers and qualifying, derives past wins per driver and writes dataset.csv.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		builder := dataset.NewBuilder(logger.NewPipelineLogger(log))
		rows, err := builder.BuildFile(cfg.Data.Dir, cfg.Data.DatasetPath)
		if err != nil {
			return err
		}

		winners := 0
		for _, r := range rows {
			winners += r.IsWinner
		}
		fmt.Printf("Wrote %d rows (%d winners) to %s\n", len(rows), winners, cfg.Data.DatasetPath)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the historical tables exist and preview them",
	RunE: func(cmd *cobra.Command, args []string) error {
		previews, err := dataset.Check(cfg.Data.Dir, previewN)
		if err != nil {
			return err
		}

		for _, p := range previews {
			fmt.Printf("%s (%s): %d rows\n", p.Name, p.Path, p.Rows)
			fmt.Printf("columns: %v\n", p.Columns)
			if p.Head.Nrow() > 0 {
				fmt.Println(p.Head.String())
			}
			fmt.Println()
		}
		return nil
	},
}

func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.Data.Dir = dataDir
	}
	if cmd.Flags().Changed("output") {
		cfg.Data.DatasetPath = outputPath
	}
	if !cmd.Flags().Changed("rows") {
		previewN = cfg.Data.PreviewRows
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
