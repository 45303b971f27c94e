package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/satirist/config"
	"github.com/mohammad-safakhou/satirist/internal/agent/telemetry"
)

// Deps are the collaborators of a Coordinator. Publisher may be nil, in
// which case finished articles are only logged. DryRun skips both the
// history append and the submission.
type Deps struct {
	Trends    TrendSource
	Agents    *Agents
	History   HistoryStore
	Publisher Publisher
	Logger    *zap.Logger
	Metrics   *telemetry.Metrics
	Pipeline  config.PipelineConfig
	DryRun    bool
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Coordinator sequences one satire run from trend fetch to publication.
type Coordinator struct {
	d   Deps
	log *zap.Logger
}

func NewCoordinator(d Deps) *Coordinator {
	d.Pipeline = d.Pipeline.Normalize()
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{d: d, log: log.With(zap.String("component", "coordinator"))}
}

// pause spaces consecutive external calls.
func (c *Coordinator) pause() {
	if c.d.Pipeline.Cooldown > 0 {
		c.d.Sleep(c.d.Pipeline.Cooldown)
	}
}

// Run executes the whole pipeline once. An aborted run returns the zero
// Result and an *AbortError. If publishing fails after history was recorded,
// the Result is returned together with the publish error.
func (c *Coordinator) Run(ctx context.Context) (Result, error) {
	res, err := c.run(ctx)
	var ab *AbortError
	switch {
	case errors.As(err, &ab):
		c.log.Warn("workflow aborted", zap.String("stage", string(ab.Stage)), zap.Error(ab.Err))
		c.d.Metrics.RecordRun("aborted", string(ab.Stage))
		return Result{}, err
	case err != nil:
		c.log.Error("publish failed", zap.String("source_title", res.SourceTitle), zap.Error(err))
		c.d.Metrics.RecordRun("publish_failed", string(StagePublish))
		return res, err
	}
	c.d.Metrics.RecordRun("ok", string(StagePublish))
	return res, nil
}

func (c *Coordinator) run(ctx context.Context) (Result, error) {
	a := c.d.Agents

	candidates := c.d.Trends.Fetch(ctx)
	if len(candidates) == 0 {
		return Result{}, abort(StageFetch, errors.New("no candidates"))
	}
	c.pause()

	used, err := c.d.History.Load(ctx)
	if err != nil {
		return Result{}, abort(StageSelect, fmt.Errorf("load history: %w", err))
	}
	chosen, ok := a.Select(ctx, candidates, used)
	if !ok {
		return Result{}, abort(StageSelect, ErrNoFreshMaterial)
	}
	c.log.Info("trend selected", zap.String("title", chosen.Title))
	c.pause()

	source := chosen.Content
	if source == "" {
		source = chosen.Title
	}
	summary, err := a.Summarize(ctx, source)
	if err != nil {
		c.log.Warn("summarizer failed, using raw content", zap.Error(err))
		summary = source
	}
	c.pause()

	angles, err := a.Brainstorm(ctx, summary)
	if err != nil {
		return Result{}, abort(StageAngles, err)
	}
	angle := angles[a.Policy.Pick(len(angles))]
	c.log.Info("angle chosen", zap.String("angle", angle), zap.Int("of", len(angles)))
	c.pause()

	headline, err := a.Headline(ctx, angle)
	if err != nil {
		return Result{}, abort(StageHeadline, err)
	}
	c.log.Info("headline written", zap.String("headline", headline))
	c.pause()

	in := DraftInput{Headline: headline, Angle: angle, Context: summary}
	draft, err := a.Draft(ctx, in)
	if err != nil {
		return Result{}, abort(StageDraft, err)
	}
	c.pause()

	loop := &RevisionLoop{Agents: a, MaxRounds: c.d.Pipeline.MaxRevisions, Pause: c.pause}
	revised, err := loop.Run(ctx, in, draft)
	if err != nil {
		return Result{}, abort(StageRevise, err)
	}
	c.d.Metrics.ObserveRevisionRounds(revised.Rounds)
	c.log.Info("revision loop finished",
		zap.String("exit", string(revised.Exit)),
		zap.Int("rounds", revised.Rounds),
		zap.Int("revisions", revised.Revisions))

	edited, err := a.Finalize(ctx, headline, revised.Article)
	if err != nil {
		return Result{}, abort(StageFinalize, err)
	}

	res := Result{
		Headline:    edited.Headline,
		Article:     edited.Article,
		Category:    edited.Category,
		SourceTitle: chosen.Title,
		Rounds:      revised.Rounds,
		Exit:        revised.Exit,
	}
	c.log.Info("article finalized", zap.String("headline", res.Headline), zap.String("category", res.Category))

	if c.d.DryRun {
		c.log.Info("dry run, history and submission skipped", zap.String("source_title", res.SourceTitle))
		return res, nil
	}
	if err := c.d.History.Append(ctx, chosen.Title); err != nil {
		return Result{}, abort(StageHistory, fmt.Errorf("record history: %w", err))
	}
	if c.d.Publisher == nil {
		return res, nil
	}
	if err := c.d.Publisher.Submit(ctx, NewSubmission(edited, c.d.Pipeline.Author)); err != nil {
		return res, err
	}
	c.log.Info("article submitted as draft")
	return res, nil
}
