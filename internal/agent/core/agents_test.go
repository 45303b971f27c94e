package core

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestParseAnglesWellFormed(t *testing.T) {
	text := "1. Fans demand a recount \n2.  Captain retires mid-century\n3. Ball files complaint"
	got := parseAngles(text)
	want := []string{"Fans demand a recount", "Captain retires mid-century", "Ball files complaint"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParseAnglesNoNumberedLines(t *testing.T) {
	if got := parseAngles("Here are some ideas\nnone of them numbered"); len(got) != 0 {
		t.Fatalf("expected no angles, got %q", got)
	}
}

func TestBrainstormAbortsWithoutAngles(t *testing.T) {
	llm := newScriptedLLM().on("angle_brainstormer", "I cannot help with that")
	a := newTestAgents(t, llm)
	if _, err := a.Brainstorm(context.Background(), "summary"); !errors.Is(err, ErrNoAngles) {
		t.Fatalf("expected ErrNoAngles, got %v", err)
	}
}

func TestIsApproved(t *testing.T) {
	cases := []struct {
		reply string
		want  bool
	}{
		{"Approved", true},
		{"approved", true},
		{" \"Approved.\" ", true},
		{"**Approved!**", true},
		{"Approved, but punch up the quotes", false},
		{"Not approved yet.", false},
		{"This would be Approved if the quotes were funnier.", false},
		{"", false},
		{"Approve", false},
		{"Approvedly", false},
	}
	for _, tc := range cases {
		if got := isApproved(tc.reply); got != tc.want {
			t.Fatalf("isApproved(%q) = %v want %v", tc.reply, got, tc.want)
		}
	}
}

func TestCritiqueVerdicts(t *testing.T) {
	ctx := context.Background()
	llm := newScriptedLLM().
		on("humor_critic", "Make the quotes sillier.").
		fail("style_critic", errors.New("timeout"))
	a := newTestAgents(t, llm)

	h := a.Critique(ctx, HumorCritic, "H", "A")
	if h.Approved || h.Feedback != "Make the quotes sillier." || h.Critic != "Humor" {
		t.Fatalf("unexpected humor verdict %+v", h)
	}
	s := a.Critique(ctx, StyleCritic, "H", "A")
	if s.Approved || s.Feedback != "" {
		t.Fatalf("failed critic must be not approved with no feedback, got %+v", s)
	}
}

func TestCriticPromptsStayInLane(t *testing.T) {
	humor := HumorCritic.Template.Build(Review{Headline: "H", Article: "A"})
	if !strings.Contains(humor, "Do NOT comment on style, grammar, or structure") {
		t.Fatalf("humor critic prompt lost its boundary")
	}
	style := StyleCritic.Template.Build(Review{Headline: "H", Article: "A"})
	if !strings.Contains(style, "DO NOT critique the humor, the absurdity of the events, or the content itself") {
		t.Fatalf("style critic prompt lost its boundary")
	}
}

func TestDraftModes(t *testing.T) {
	first := articleWriter.Build(DraftInput{Headline: "H", Angle: "ANGLE", Context: "CTX"})
	if !strings.Contains(first, "400-word") || strings.Contains(first, "Feedback to Incorporate") {
		t.Fatalf("unexpected first-draft prompt: %s", first)
	}
	rev := articleWriter.Build(DraftInput{Headline: "H", Angle: "ANGLE", Context: "CTX", Feedback: "FB"})
	for _, want := range []string{`"ANGLE"`, `"CTX"`, `"FB"`, "MUST adhere to the original angle and context", "at least 3 fake experts"} {
		if !strings.Contains(rev, want) {
			t.Fatalf("revision prompt missing %q", want)
		}
	}
}

func TestParseEdited(t *testing.T) {
	ed, err := parseEdited("```json\n{\"cleaned_headline\":\" H \",\"cleaned_article\":\"Body\",\"category\":\"technology\"}\n```")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ed.Headline != "H" || ed.Article != "Body" || ed.Category != "Technology" {
		t.Fatalf("unexpected edit %+v", ed)
	}

	for _, raw := range []string{
		`{"cleaned_headline":"H","cleaned_article":"Body","category":"Opinion"}`,
		`{"cleaned_headline":"H","cleaned_article":"Body"}`,
	} {
		ed, err = parseEdited(raw)
		if err != nil || ed.Category != DefaultCategory {
			t.Fatalf("expected default category, got %+v err=%v", ed, err)
		}
		if !slices.Contains(Categories, ed.Category) {
			t.Fatalf("category %q is not one of the enumerated categories", ed.Category)
		}
	}

	if _, err := parseEdited(`{"cleaned_headline":"H","cleaned_article":"  "}`); !errors.Is(err, ErrMissingArticle) {
		t.Fatalf("expected ErrMissingArticle, got %v", err)
	}
	if _, err := parseEdited("Sure! Here is your article: ..."); err == nil {
		t.Fatalf("expected malformed payload to fail")
	}
}

func TestFinalizeKeepsDraftHeadline(t *testing.T) {
	llm := newScriptedLLM().on("final_editor", `{"cleaned_article":"Body","category":"Science"}`)
	a := newTestAgents(t, llm)
	ed, err := a.Finalize(context.Background(), "Draft Headline", "draft body")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if ed.Headline != "Draft Headline" {
		t.Fatalf("expected draft headline fallback, got %q", ed.Headline)
	}
	if !llm.calls[0].JSON || llm.calls[0].Model != "fast-model" {
		t.Fatalf("final editor must use JSON mode on the fast model, got %+v", llm.calls[0])
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory(" world news "); got != "World News" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeCategory(""); got != DefaultCategory {
		t.Fatalf("got %q", got)
	}
}

func TestRunRejectsBlankReply(t *testing.T) {
	llm := newScriptedLLM().on("headline_writer", "   ")
	a := newTestAgents(t, llm)
	if _, err := a.Headline(context.Background(), "angle"); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}
