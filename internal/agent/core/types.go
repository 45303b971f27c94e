package core

import (
	"errors"
	"fmt"
	"strings"
)

// Candidate is one headline/content pair fetched from a news source.
type Candidate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Result is the finished article of one pipeline run.
type Result struct {
	Headline    string `json:"headline"`
	Article     string `json:"article"`
	Category    string `json:"category"`
	SourceTitle string `json:"source_title"`
	Rounds      int    `json:"rounds"`
	Exit        Exit   `json:"exit"`
}

// Stage names the pipeline step a run ended at.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageSelect   Stage = "select"
	StageAngles   Stage = "angles"
	StageHeadline Stage = "headline"
	StageDraft    Stage = "draft"
	StageRevise   Stage = "revise"
	StageFinalize Stage = "finalize"
	StageHistory  Stage = "history"
	StagePublish  Stage = "publish"
)

var (
	// ErrWorkflowAborted is matched by every *AbortError.
	ErrWorkflowAborted = errors.New("workflow aborted")
	// ErrEmptyCompletion is returned when a model answers with nothing but whitespace.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrNoFreshMaterial means every candidate title is already in history.
	ErrNoFreshMaterial = errors.New("no unused candidates")
	ErrNoAngles        = errors.New("no angles parsed")
	ErrMissingArticle  = errors.New("final editor returned no article")
)

// AbortError reports the stage that stopped a run. Nothing is recorded or
// published when it is returned.
type AbortError struct {
	Stage Stage
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("workflow aborted at %s: %v", e.Stage, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }

func (e *AbortError) Is(target error) bool { return target == ErrWorkflowAborted }

func abort(stage Stage, err error) *AbortError {
	return &AbortError{Stage: stage, Err: err}
}

// Categories accepted from the final editor.
var Categories = []string{
	"Politics", "World News", "Business", "Technology",
	"Sports", "Entertainment", "Lifestyle", "Science",
}

// DefaultCategory is used when the editor omits or invents a category. It is
// one of Categories so every stored article carries an enumerated value.
const DefaultCategory = "World News"

// NormalizeCategory maps s onto the canonical spelling of a known category.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(c, s) {
			return c
		}
	}
	return DefaultCategory
}
