package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/satirist/config"
	"github.com/mohammad-safakhou/satirist/internal/agent/core"
	"github.com/mohammad-safakhou/satirist/internal/agent/telemetry"
	"github.com/mohammad-safakhou/satirist/internal/history"
	"github.com/mohammad-safakhou/satirist/internal/logging"
	"github.com/mohammad-safakhou/satirist/internal/store"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.General.LogLevel, cfg.General.Debug)
}

// pipeline owns a Coordinator and the connections opened for it.
type pipeline struct {
	Coordinator *core.Coordinator
	closers     []io.Closer
}

func (p *pipeline) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildPipeline wires the agents, sources, history and publisher from cfg.
// A dry run neither records history nor submits articles.
func buildPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *telemetry.Metrics, dryRun bool) (*pipeline, error) {
	p := &pipeline{}

	hist, err := openHistory(ctx, cfg, p)
	if err != nil {
		return nil, err
	}
	var pub core.Publisher
	if !dryRun {
		pub, err = openPublisher(ctx, cfg, p)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
	}

	runner := core.NewRunner(core.NewOpenAIProvider(cfg.LLM), cfg.LLM.Models.Fast, cfg.LLM.Models.Reasoning, metrics, logger)
	agents := core.NewAgents(runner, core.NewSelectionPolicy(nil))
	sources := core.NewSourceProviders(cfg.Sources)
	if len(sources) == 0 {
		logger.Warn("no news source api keys configured; runs will use fallback trends")
	}

	p.Coordinator = core.NewCoordinator(core.Deps{
		Trends:    core.NewTrendSpotter(sources, cfg.Sources.Delay, logger, metrics),
		Agents:    agents,
		History:   hist,
		Publisher: pub,
		Logger:    logger,
		Metrics:   metrics,
		Pipeline:  cfg.Pipeline,
		DryRun:    dryRun,
	})
	return p, nil
}

func openHistory(ctx context.Context, cfg *config.Config, p *pipeline) (core.HistoryStore, error) {
	switch cfg.History.Backend {
	case "file":
		return history.NewFile(cfg.History.Path), nil
	case "redis":
		rc := cfg.Storage.Redis
		client, err := history.Dial(ctx, rc.Addr(), rc.Password, rc.DB, rc.Timeout)
		if err != nil {
			return nil, err
		}
		h := history.NewRedis(client, cfg.History.RedisKey)
		p.closers = append(p.closers, h)
		return h, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

func openPublisher(ctx context.Context, cfg *config.Config, p *pipeline) (core.Publisher, error) {
	switch cfg.Publisher.Mode {
	case "http":
		return core.NewHTTPPublisher(cfg.Publisher.Endpoint, cfg.Publisher.Timeout), nil
	case "store":
		st, err := store.Open(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, st)
		return &core.StorePublisher{Store: st}, nil
	default:
		return nil, fmt.Errorf("unknown publisher mode %q", cfg.Publisher.Mode)
	}
}
