package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/grid-predictor/internal/database"
	"github.com/yourusername/grid-predictor/internal/health"
	"github.com/yourusername/grid-predictor/internal/metrics"
	"github.com/yourusername/grid-predictor/internal/openf1"
	"github.com/yourusername/grid-predictor/internal/repository"
	"github.com/yourusername/grid-predictor/internal/scheduler"
	"github.com/yourusername/grid-predictor/internal/service"
)

// jobTimeout bounds one scheduled prediction.
const jobTimeout = 2 * time.Minute

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the prediction on a schedule while qualifying is live",
	Long: `Runs the prediction on watch.schedule and prints a fresh table after each run.
Serves /health, /ready and /live, plus metrics when metrics.enabled is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		metrics.InitRegistry()

		var (
			repos  *repository.Repositories
			pinger health.DatabasePinger
		)
		if cfg.Predictor.StoreResults {
			db, err := database.Initialize(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if repos, err = repository.NewRepositories(db); err != nil {
				return err
			}
			pinger = db
		} else {
			repos = repository.NewInMemoryRepositories()
		}

		client := openf1.NewClientFromConfig(cfg.OpenF1, log.WithField("service", "predict-watch"))
		defer client.Close()

		svc, err := newPredictor(client, repos.Prediction)
		if err != nil {
			return err
		}

		healthCfg := health.Config{
			ServiceName: "predict",
			Version:     Version,
			Port:        cfg.Watch.HealthPort,
			Logger:      log,
			DB:          pinger,
		}
		if cfg.Metrics.Enabled {
			healthCfg.Metrics = metrics.Handler()
			healthCfg.MetricsPath = cfg.Metrics.Path
		}
		server := health.NewServer(healthCfg)
		if err := server.Start(ctx); err != nil {
			return err
		}

		req := service.PredictRequest{Country: cfg.Predictor.Country, Year: cfg.Predictor.Year}
		job := func(ctx context.Context) error {
			run, err := svc.Predict(ctx, req)
			server.RecordRun(err)
			hits, misses := client.CacheStats()
			log.WithFields(logrus.Fields{
				"cache_hits":   hits,
				"cache_misses": misses,
			}).Debug("OpenF1 cache usage")
			if err != nil {
				return err
			}
			return present(os.Stdout, run)
		}

		sched := scheduler.NewScheduler(log)
		if _, err := sched.Schedule("predict", cfg.Watch.Schedule, jobTimeout, job); err != nil {
			return err
		}

		if cfg.Watch.RunImmediately {
			runCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			if err := job(runCtx); err != nil {
				log.WithError(err).Error("Initial prediction failed")
			}
			cancel()
		}

		if err := sched.Start(); err != nil {
			return err
		}
		log.WithField("next_run", sched.GetNextRun()).Info("Watching qualifying")

		<-ctx.Done()
		log.Info("Shutting down")
		return sched.Stop()
	},
}
