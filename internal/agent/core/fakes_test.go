package core

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

// scriptedLLM answers by agent name. Each agent has a queue of replies; the
// last reply repeats once the queue is drained.
type scriptedLLM struct {
	mu      sync.Mutex
	replies map[string][]string
	errs    map[string]error
	calls   []CompletionRequest
}

func newScriptedLLM() *scriptedLLM {
	return &scriptedLLM{replies: map[string][]string{}, errs: map[string]error{}}
}

func (s *scriptedLLM) on(agent string, replies ...string) *scriptedLLM {
	s.replies[agent] = replies
	return s
}

func (s *scriptedLLM) fail(agent string, err error) *scriptedLLM {
	s.errs[agent] = err
	return s
}

func (s *scriptedLLM) Complete(_ context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if err := s.errs[req.Agent]; err != nil {
		return "", err
	}
	q := s.replies[req.Agent]
	if len(q) == 0 {
		return "", nil
	}
	r := q[0]
	if len(q) > 1 {
		s.replies[req.Agent] = q[1:]
	}
	return r, nil
}

func (s *scriptedLLM) count(agent string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Agent == agent {
			n++
		}
	}
	return n
}

func (s *scriptedLLM) lastPrompt(agent string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].Agent == agent {
			return s.calls[i].Prompt
		}
	}
	return ""
}

func newTestAgents(t *testing.T, llm LLMProvider) *Agents {
	t.Helper()
	runner := NewRunner(llm, "fast-model", "reasoning-model", nil, zap.NewNop())
	return NewAgents(runner, NewSelectionPolicy(rand.New(rand.NewSource(7))))
}

// happyLLM scripts a run where both critics approve the first draft.
func happyLLM() *scriptedLLM {
	return newScriptedLLM().
		on("potential_assessor", "1").
		on("topic_analyst", "A team won a match. Fans celebrated.").
		on("angle_brainstormer", "1. Fans demand a recount\n2. Captain retires mid-century\n3. Ball files complaint").
		on("headline_writer", "Nation Demands Recount Of Cricket Victory").
		on("article_writer", "MUMBAI - First draft.").
		on("humor_critic", "Approved").
		on("style_critic", "Approved.").
		on("final_editor", `{"cleaned_headline":"Nation Demands Recount","cleaned_article":"MUMBAI - Clean draft.","category":"sports"}`)
}

type staticTrends []Candidate

func (s staticTrends) Fetch(context.Context) []Candidate { return append([]Candidate(nil), s...) }

func titlesOf(cs []Candidate) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.Title
	}
	return strings.Join(parts, "|")
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }
