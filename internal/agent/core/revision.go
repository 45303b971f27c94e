package core

import (
	"context"
	"fmt"
	"strings"
)

// Exit is how the revision loop ended.
type Exit string

const (
	ExitApproved  Exit = "APPROVED"
	ExitMaxRounds Exit = "MAX_ROUNDS"
)

// Round records the verdicts of one critique round.
type Round struct {
	Number   int
	Verdicts []Verdict
	Revised  bool
}

type LoopResult struct {
	Article   string
	Rounds    int
	Exit      Exit
	Revisions int
	Trace     []Round
}

// RevisionLoop runs at most MaxRounds critique rounds over a draft. Pause is
// called after every model call.
type RevisionLoop struct {
	Agents    *Agents
	MaxRounds int
	Pause     func()
}

// Run critiques and rewrites the draft until every critic approves or the
// round limit is hit. A failed rewrite is returned as an error.
func (l *RevisionLoop) Run(ctx context.Context, in DraftInput, article string) (LoopResult, error) {
	maxRounds := l.MaxRounds
	if maxRounds < 1 {
		maxRounds = 1
	}
	res := LoopResult{Article: article}
	for round := 1; ; round++ {
		verdicts := make([]Verdict, 0, len(l.Agents.Critics))
		for _, c := range l.Agents.Critics {
			verdicts = append(verdicts, l.Agents.Critique(ctx, c, in.Headline, res.Article))
			l.pause()
		}
		res.Rounds = round
		res.Trace = append(res.Trace, Round{Number: round, Verdicts: verdicts})

		if allApproved(verdicts) {
			res.Exit = ExitApproved
			return res, nil
		}
		if round >= maxRounds {
			res.Exit = ExitMaxRounds
			return res, nil
		}

		rewrite := in
		rewrite.Feedback = combineFeedback(verdicts)
		revised, err := l.Agents.Draft(ctx, rewrite)
		if err != nil {
			return res, fmt.Errorf("revision %d: %w", round, err)
		}
		res.Article = revised
		res.Revisions++
		res.Trace[len(res.Trace)-1].Revised = true
		l.pause()
	}
}

func (l *RevisionLoop) pause() {
	if l.Pause != nil {
		l.Pause()
	}
}

func allApproved(vs []Verdict) bool {
	for _, v := range vs {
		if !v.Approved {
			return false
		}
	}
	return true
}

// combineFeedback joins the non-approving critics' notes as
// "Humor Improvement: ... Style Improvement: ...".
func combineFeedback(vs []Verdict) string {
	var parts []string
	for _, v := range vs {
		if !v.Approved {
			parts = append(parts, strings.TrimSpace(fmt.Sprintf("%s Improvement: %s", v.Critic, v.Feedback)))
		}
	}
	return strings.Join(parts, " ")
}
