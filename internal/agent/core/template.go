package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/satirist/internal/agent/telemetry"
)

// ModelRole routes an agent to a model by task complexity.
type ModelRole string

const (
	RoleFast      ModelRole = "fast"
	RoleReasoning ModelRole = "reasoning"
)

// Options are the per-agent call parameters.
type Options struct {
	Role        ModelRole
	Temperature float64
	MaxTokens   int
	JSON        bool
}

// Template is one agent: a fixed prompt over In and a parser producing Out.
type Template[In, Out any] struct {
	Name    string
	Options Options
	Build   func(In) string
	Parse   func(string) (Out, error)
}

// Runner executes templates against a provider.
type Runner struct {
	LLM     LLMProvider
	Models  map[ModelRole]string
	Metrics *telemetry.Metrics
	Logger  *zap.Logger
}

func NewRunner(llm LLMProvider, fast, reasoning string, metrics *telemetry.Metrics, logger *zap.Logger) *Runner {
	return &Runner{
		LLM:     llm,
		Models:  map[ModelRole]string{RoleFast: fast, RoleReasoning: reasoning},
		Metrics: metrics,
		Logger:  logger,
	}
}

// Run builds the prompt, makes exactly one call, and parses the trimmed reply.
// A blank reply is ErrEmptyCompletion.
func Run[In, Out any](ctx context.Context, r *Runner, t Template[In, Out], in In) (Out, error) {
	var zero Out
	req := CompletionRequest{
		Agent:       t.Name,
		Model:       r.Models[t.Options.Role],
		Prompt:      t.Build(in),
		Temperature: t.Options.Temperature,
		MaxTokens:   t.Options.MaxTokens,
		JSON:        t.Options.JSON,
	}

	start := time.Now()
	text, err := r.LLM.Complete(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyCompletion
	}
	r.Metrics.ObserveLLM(t.Name, err, time.Since(start))
	if err != nil {
		r.logger().Warn("agent call failed", zap.String("agent", t.Name), zap.Error(err))
		return zero, fmt.Errorf("%s: %w", t.Name, err)
	}
	out, err := t.Parse(strings.TrimSpace(text))
	if err != nil {
		return zero, fmt.Errorf("%s: %w", t.Name, err)
	}
	return out, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func asText(s string) (string, error) { return s, nil }
