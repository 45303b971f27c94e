package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/satirist/internal/agent/telemetry"
)

// FallbackTrends is used when no source returns anything.
var FallbackTrends = []Candidate{
	{
		Title:   "Cricket match results announced",
		Content: "The national cricket team has won a decisive victory in their latest match, with the captain scoring a century. Fans are celebrating the win across the country.",
	},
	{
		Title:   "New smartphone released",
		Content: "A major tech company has released its latest flagship smartphone, featuring a slightly improved camera and a new color option. Analysts predict it will sell millions of units despite its high price point.",
	},
}

// TrendSource yields the candidate pool for one run.
type TrendSource interface {
	Fetch(ctx context.Context) []Candidate
}

// TrendSpotter queries every source in turn and never fails: a source error
// counts as zero records, and an empty pool falls back to FallbackTrends.
// Delay is slept before each source query.
type TrendSpotter struct {
	Sources []SourceProvider
	Delay   time.Duration
	Sleep   func(time.Duration)
	Logger  *zap.Logger
	Metrics *telemetry.Metrics
}

func NewTrendSpotter(sources []SourceProvider, delay time.Duration, logger *zap.Logger, metrics *telemetry.Metrics) *TrendSpotter {
	return &TrendSpotter{Sources: sources, Delay: delay, Sleep: time.Sleep, Logger: logger, Metrics: metrics}
}

func (t *TrendSpotter) Fetch(ctx context.Context) []Candidate {
	log := t.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var all []Candidate
	for _, src := range t.Sources {
		if t.Delay > 0 && t.Sleep != nil {
			t.Sleep(t.Delay)
		}
		items, err := src.Fetch(ctx)
		t.Metrics.ObserveSource(src.Name(), len(items), err)
		if err != nil {
			log.Warn("source fetch failed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		log.Info("source fetched", zap.String("source", src.Name()), zap.Int("records", len(items)))
		all = append(all, items...)
	}
	if len(all) > 0 {
		return all
	}
	log.Warn("no source returned records, using fallback trends")
	return append([]Candidate(nil), FallbackTrends...)
}
