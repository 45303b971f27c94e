package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var assessor = Template[[]string, string]{
	Name:    "potential_assessor",
	Options: Options{Role: RoleReasoning, Temperature: 0.1, MaxTokens: 10},
	Build: func(titles []string) string {
		var b strings.Builder
		for i, t := range titles {
			fmt.Fprintf(&b, "%d. %s\n", i+1, t)
		}
		return fmt.Sprintf(`You are the head writer for a satirical news show. Your job is to pick the most promising story to develop from the following list.

[HEADLINES]
%s
[INSTRUCTION]
Respond with ONLY the number of the headline you choose. For example: 3`, b.String())
	},
	Parse: asText,
}

// Select picks one candidate whose title is not in history. It reports false
// only when every candidate has been used; otherwise a bad or failed model
// reply degrades to a random choice.
func (a *Agents) Select(ctx context.Context, candidates []Candidate, history []string) (Candidate, bool) {
	used := make(map[string]struct{}, len(history))
	for _, h := range history {
		used[h] = struct{}{}
	}
	var available []Candidate
	for _, c := range candidates {
		if _, seen := used[c.Title]; !seen {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return Candidate{}, false
	}

	titles := make([]string, len(available))
	for i, c := range available {
		titles[i] = c.Title
	}
	reply, err := Run(ctx, a.Runner, assessor, titles)
	idx, parsed := a.Policy.Choose(len(available), reply)
	if err == nil && !parsed {
		a.Runner.logger().Warn("assessor reply unusable, choosing randomly", zap.String("reply", reply))
	}
	return available[idx], true
}
