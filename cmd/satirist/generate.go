package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mohammad-safakhou/satirist/config"
	"github.com/mohammad-safakhou/satirist/internal/agent/core"
	"github.com/mohammad-safakhou/satirist/internal/agent/telemetry"
	srv "github.com/mohammad-safakhou/satirist/internal/server"
)

func generateCMD(cfgPath *string) *cobra.Command {
	var cronSpec string
	var maxRevisions int
	var dryRun bool
	var metricsAddr string

	var generate = &cobra.Command{
		Use:   "generate",
		Short: "Write one satirical article, or keep writing on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if maxRevisions > 0 {
				cfg.Pipeline.MaxRevisions = maxRevisions
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := newRegistry(cfg)
			var metrics *telemetry.Metrics
			if cfg.Telemetry.Enabled {
				metrics = telemetry.NewMetrics(reg)
			}

			p, err := buildPipeline(ctx, cfg, logger, metrics, dryRun)
			if err != nil {
				return err
			}
			defer p.Close()

			once := func(ctx context.Context) error {
				res, err := p.Coordinator.Run(ctx)
				if err != nil {
					return err
				}
				logger.Info("article generated",
					zap.String("headline", res.Headline),
					zap.String("category", res.Category),
					zap.String("source_title", res.SourceTitle),
					zap.Int("rounds", res.Rounds),
					zap.String("exit", string(res.Exit)),
					zap.Bool("dry_run", dryRun))
				if dryRun {
					logger.Debug("article body", zap.String("article", res.Article+core.Disclaimer))
				}
				return nil
			}

			if cronSpec == "" {
				return once(ctx)
			}
			sched, err := srv.NewScheduler(cronSpec, logger)
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				e := echo.New()
				e.HideBanner = true
				e.HidePort = true
				e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
				go func() {
					if err := srv.Run(ctx, e, metricsAddr); err != nil {
						logger.Error("metrics listener stopped", zap.Error(err))
					}
				}()
			}
			return sched.Run(ctx, once)
		},
	}
	generate.Flags().StringVar(&cronSpec, "cron", "", "run on a schedule (@hourly, @daily or a cron expression) instead of once")
	generate.Flags().IntVar(&maxRevisions, "max-revisions", 0, "override pipeline.max_revisions")
	generate.Flags().BoolVar(&dryRun, "dry-run", false, "run the pipeline without submitting the article")
	generate.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address while scheduled")
	return generate
}
