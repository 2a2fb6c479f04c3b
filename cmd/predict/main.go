// Command predict prints win probabilities for an upcoming race from live
// qualifying lap times.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/grid-predictor/internal/classifier"
	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/database"
	"github.com/yourusername/grid-predictor/internal/dataset"
	"github.com/yourusername/grid-predictor/internal/logger"
	"github.com/yourusername/grid-predictor/internal/models"
	"github.com/yourusername/grid-predictor/internal/openf1"
	"github.com/yourusername/grid-predictor/internal/report"
	"github.com/yourusername/grid-predictor/internal/repository"
	"github.com/yourusername/grid-predictor/internal/scoring"
	"github.com/yourusername/grid-predictor/internal/service"
)

// Build information - set via ldflags
var Version = "dev"

var (
	configFile string
	strategy   string
	country    string
	year       int
	modelPath  string
	exportPath string
	seed       int64

	cfg *config.Config
	log *logrus.Logger
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	flags.StringVar(&strategy, "strategy", "", "Scoring strategy (model or heuristic)")
	flags.StringVar(&country, "country", "", "Country of the Grand Prix, e.g. Japan")
	flags.IntVar(&year, "year", 0, "Season of the Grand Prix")
	flags.StringVar(&modelPath, "model", "", "Fitted model file for the model strategy")
	flags.StringVar(&exportPath, "export", "", "Also write the run to this .csv or .json file")
	flags.Int64Var(&seed, "seed", 0, "Seed for the heuristic jitter (0 uses the clock)")

	rootCmd.AddCommand(watchCmd)
}

var rootCmd = &cobra.Command{
	Use:           "predict",
	Short:         "Predict the winner of an upcoming race",
	Long:          `Fetches qualifying laps from OpenF1, builds the grid and prints a ranked win probability table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var repo repository.PredictionRepository
		if cfg.Predictor.StoreResults {
			db, err := database.Initialize(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			repos, err := repository.NewRepositories(db)
			if err != nil {
				return err
			}
			repo = repos.Prediction
		}

		client := openf1.NewClientFromConfig(cfg.OpenF1, log.WithField("service", "predict"))
		defer client.Close()

		svc, err := newPredictor(client, repo)
		if err != nil {
			return err
		}

		run, err := svc.Predict(ctx, service.PredictRequest{Country: cfg.Predictor.Country, Year: cfg.Predictor.Year})
		if err != nil {
			return err
		}
		return present(os.Stdout, run)
	},
}

func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.LoadSecretsFromEnv(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Predictor.Strategy = strategy
	}
	if flags.Changed("country") {
		cfg.Predictor.Country = country
	}
	if flags.Changed("year") {
		cfg.Predictor.Year = year
	}
	if flags.Changed("model") {
		cfg.Model.Path = modelPath
	}
	if flags.Changed("export") {
		cfg.Predictor.ExportPath = exportPath
	}
	if flags.Changed("seed") {
		cfg.Predictor.JitterSeed = seed
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	return nil
}

// newPredictor loads the win history and the configured strategy.
func newPredictor(live service.LiveTiming, repo repository.PredictionRepository) (*service.PredictorService, error) {
	history, err := dataset.LoadHistory(cfg.Data.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load win history: %w", err)
	}

	strat, err := newStrategy()
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"strategy": strat.Name(),
		"drivers":  history.Drivers(),
	}).Debug("Predictor ready")

	return service.NewPredictorService(live, history, strat, repo, cfg.Predictor, log), nil
}

func newStrategy() (scoring.Strategy, error) {
	if cfg.Predictor.Strategy == config.StrategyModel {
		model, artifact, err := classifier.LoadModel(cfg.Model.Path)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"algorithm":  artifact.Algorithm,
			"trained_at": artifact.TrainedAt,
		}).Debug("Model loaded")
		return scoring.NewModelStrategy(model), nil
	}

	return scoring.NewHeuristicStrategy(
		scoring.WithFormBoost(cfg.Predictor.FormBoost()),
		scoring.WithJitter(cfg.Predictor.JitterMin, cfg.Predictor.JitterMax),
		scoring.WithRandomSource(scoring.NewRandomSource(cfg.Predictor.JitterSeed)),
	), nil
}

// present prints the table and writes the optional export.
func present(out io.Writer, run *models.PredictionRun) error {
	table := report.NewTable(out, report.TableOptions{
		Clamp: cfg.Predictor.ClampPercentage,
		Color: !color.NoColor,
	})
	if err := table.Render(run); err != nil {
		return err
	}

	if cfg.Predictor.ExportPath != "" {
		if err := report.Export(cfg.Predictor.ExportPath, run, cfg.Predictor.ClampPercentage); err != nil {
			return err
		}
		log.WithField("path", cfg.Predictor.ExportPath).Info("Prediction exported")
	}
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
