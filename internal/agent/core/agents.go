package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// Agents bundles the prompt agents of the pipeline.
type Agents struct {
	Runner  *Runner
	Policy  *SelectionPolicy
	Critics []Critic
}

func NewAgents(runner *Runner, policy *SelectionPolicy) *Agents {
	if policy == nil {
		policy = NewSelectionPolicy(nil)
	}
	return &Agents{Runner: runner, Policy: policy, Critics: []Critic{HumorCritic, StyleCritic}}
}

var summarizer = Template[string, string]{
	Name:    "topic_analyst",
	Options: Options{Role: RoleFast, Temperature: 0.4, MaxTokens: 300},
	Build: func(snippet string) string {
		return fmt.Sprintf(`You are a news analyst. Read the following news article snippet and summarize its core story in two concise sentences.
This summary will be used to generate satire, so focus on the key, most important elements.

Article Snippet to Summarize: "%s"`, snippet)
	},
	Parse: asText,
}

// Summarize condenses text into two neutral sentences.
func (a *Agents) Summarize(ctx context.Context, text string) (string, error) {
	return Run(ctx, a.Runner, summarizer, text)
}

var brainstormer = Template[string, []string]{
	Name:    "angle_brainstormer",
	Options: Options{Role: RoleReasoning, Temperature: 0.8, MaxTokens: 500},
	Build: func(summary string) string {
		return fmt.Sprintf(`The following is a clean summary of a real news story: "%s"

Brainstorm 3 distinct and funny satirical angles for this story in the style of 'The Onion' or 'Faking News'.
Present them as a numbered list. For example:
1. [Angle 1]
2. [Angle 2]
3. [Angle 3]`, summary)
	},
	Parse: func(text string) ([]string, error) {
		angles := parseAngles(text)
		if len(angles) == 0 {
			return nil, ErrNoAngles
		}
		return angles, nil
	},
}

// Brainstorm returns the parsed satirical angles, or ErrNoAngles.
func (a *Agents) Brainstorm(ctx context.Context, summary string) ([]string, error) {
	return Run(ctx, a.Runner, brainstormer, summary)
}

// parseAngles keeps lines containing a '.', taking the trimmed text after the first one.
func parseAngles(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		_, after, found := strings.Cut(line, ".")
		if !found {
			continue
		}
		if angle := strings.TrimSpace(after); angle != "" {
			out = append(out, angle)
		}
	}
	return out
}

var headlineWriter = Template[string, string]{
	Name:    "headline_writer",
	Options: Options{Role: RoleFast, Temperature: 0.9, MaxTokens: 100},
	Build: func(angle string) string {
		return fmt.Sprintf(`Create a satirical news headline in the style of The Onion or Faking News based on this specific angle: "%s". Make it absurd but plausible, max 12 words.`, angle)
	},
	Parse: asText,
}

func (a *Agents) Headline(ctx context.Context, angle string) (string, error) {
	return Run(ctx, a.Runner, headlineWriter, angle)
}

// DraftInput feeds the article writer. A non-empty Feedback selects revision mode.
type DraftInput struct {
	Headline string
	Angle    string
	Context  string
	Feedback string
}

const articleStructure = `1. Dateline: An appropriate location for the context.
2. Opening Paragraph: Cover the 5 Ws (Who, What, When, Where, Why) for the satirical story.
3. Expert Quotes: Include quotes from at least 3 fake experts that support the angle.
4. Statistics: Include one realistic-sounding but fake statistic.
5. Tone: Maintain a serious, deadpan journalistic tone.
6. Conclusion: End with a paragraph that adds a final satirical twist.`

var articleWriter = Template[DraftInput, string]{
	Name:    "article_writer",
	Options: Options{Role: RoleReasoning, Temperature: 0.8, MaxTokens: 1024},
	Build: func(in DraftInput) string {
		if in.Feedback != "" {
			return fmt.Sprintf(`You are revising a satirical article. Rewrite the entire article based on the provided feedback.

**Headline:** "%s"
**Creative Angle (Your primary guide):** "%s"
**Grounding Context (For details):** "%s"
**Feedback to Incorporate:** "%s"

While incorporating the feedback, you MUST adhere to the original angle and context, and you MUST follow this structure precisely:
%s`, in.Headline, in.Angle, in.Context, in.Feedback, articleStructure)
		}
		return fmt.Sprintf(`Write a professional 400-word satirical news article.

**Headline:** "%s"

**Creative Angle (Your primary guide):** "%s"

**Grounding Context (For details like location/names):** "%s"

You must write an article that perfectly executes the provided Creative Angle. Use the Grounding Context to inform the specific details, making the story feel real. Follow this structure precisely:
%s`, in.Headline, in.Angle, in.Context, articleStructure)
	},
	Parse: asText,
}

// Draft writes a first draft, or a full rewrite when in.Feedback is set.
func (a *Agents) Draft(ctx context.Context, in DraftInput) (string, error) {
	return Run(ctx, a.Runner, articleWriter, in)
}

// Review is what a critic reads.
type Review struct {
	Headline string
	Article  string
}

// Critic is a single-lane reviewer. Label prefixes its feedback in revision requests.
type Critic struct {
	Label    string
	Template Template[Review, string]
}

// Verdict is one critic's answer for one round. Critic holds the critic's Label.
type Verdict struct {
	Critic   string
	Approved bool
	Feedback string
}

var HumorCritic = Critic{
	Label: "Humor",
	Template: Template[Review, string]{
		Name:    "humor_critic",
		Options: Options{Role: RoleReasoning, Temperature: 0.5, MaxTokens: 200},
		Build: func(r Review) string {
			return fmt.Sprintf(`You are a comedy critic. Your only job is to assess if the article is funny.
Headline: "%s"
Article: "%s"

Focus ONLY on the humor. Are the jokes landing? Is the premise funny? Are the quotes witty?
Provide one sentence of actionable feedback to make it funnier.
Do NOT comment on style, grammar, or structure.
If the humor is excellent and needs no improvement, respond ONLY with the word "Approved".`, r.Headline, r.Article)
		},
		Parse: asText,
	},
}

var StyleCritic = Critic{
	Label: "Style",
	Template: Template[Review, string]{
		Name:    "style_critic",
		Options: Options{Role: RoleReasoning, Temperature: 0.5, MaxTokens: 200},
		Build: func(r Review) string {
			return fmt.Sprintf(`[SYSTEM INSTRUCTION]
You are a style evaluation system for a satirical newspaper. Your function is to analyze the provided text against a set of rules and provide a single-line response.

[RULES]
1. Your ENTIRE output must be ONE of two things: the single word "Approved" OR a single sentence of actionable feedback.
2. The feedback must ONLY address how to make the article's TONE more serious, professional, and "deadpan," like a real news report.
3. DO NOT critique the humor, the absurdity of the events, or the content itself. Focus ONLY on the writing style.
4. DO NOT use conversational language. Do not ask for the article. Do not greet. Execute the task based on the input below.

[INPUT TEXT]
Headline: "%s"
Article: "%s"

[YOUR RESPONSE]`, r.Headline, r.Article)
		},
		Parse: asText,
	},
}

// Critique never fails: a failed or empty call is "not approved" with no feedback.
func (a *Agents) Critique(ctx context.Context, c Critic, headline, article string) Verdict {
	v := Verdict{Critic: c.Label}
	reply, err := Run(ctx, a.Runner, c.Template, Review{Headline: headline, Article: article})
	if err != nil {
		return v
	}
	if isApproved(reply) {
		v.Approved = true
		return v
	}
	v.Feedback = reply
	return v
}

// isApproved accepts "Approved" alone, ignoring case, quotes, emphasis and
// trailing punctuation. Feedback that merely mentions the word is not approval.
func isApproved(reply string) bool {
	const token = "approved"
	s := strings.TrimFunc(reply, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("\"'`*“”_", r)
	})
	if len(s) < len(token) || !strings.EqualFold(s[:len(token)], token) {
		return false
	}
	rest := strings.TrimFunc(s[len(token):], func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	return rest == ""
}

// Edited is the final editor's output.
type Edited struct {
	Headline string
	Article  string
	Category string
}

var finalEditor = Template[Review, Edited]{
	Name:    "final_editor",
	Options: Options{Role: RoleFast, Temperature: 0.1, MaxTokens: 2048, JSON: true},
	Build: func(r Review) string {
		return fmt.Sprintf(`You are a stern, no-nonsense final copy editor for a satirical newspaper.
Your only goal is to prepare the following for publication.

Draft Headline: "%s"
Draft Article: "%s"

Perform THREE tasks:

TASK 1: RUTHLESSLY CLEAN THE HEADLINE.
The draft headline may contain extra conversational text or explanations. Extract ONLY the core satirical headline itself. The result should be a short, single-line headline.

TASK 2: RUTHLESSLY CLEAN THE ARTICLE.
The draft may contain AI-generated artifacts, conversational filler, or meta-commentary. You must remove all of it.
The final output text for this task MUST be ONLY the publishable article, starting with its dateline and ending with its final sentence.

TASK 3: CATEGORIZE THE CLEANED ARTICLE.
Based on the final, cleaned article text from Task 2, categorize it into ONE of the following options:
%s

Return your response as a single, valid JSON object with three keys: "cleaned_headline", "cleaned_article", and "category".`, r.Headline, r.Article, strings.Join(Categories, ", "))
	},
	Parse: parseEdited,
}

func parseEdited(text string) (Edited, error) {
	var payload struct {
		CleanedHeadline string `json:"cleaned_headline"`
		CleanedArticle  string `json:"cleaned_article"`
		Category        string `json:"category"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &payload); err != nil {
		return Edited{}, fmt.Errorf("decode editor payload: %w", err)
	}
	ed := Edited{
		Headline: strings.TrimSpace(payload.CleanedHeadline),
		Article:  strings.TrimSpace(payload.CleanedArticle),
		Category: NormalizeCategory(payload.Category),
	}
	if ed.Article == "" {
		return Edited{}, ErrMissingArticle
	}
	return ed, nil
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// Finalize cleans and categorizes the draft. The draft headline is kept when
// the editor returns none.
func (a *Agents) Finalize(ctx context.Context, headline, article string) (Edited, error) {
	ed, err := Run(ctx, a.Runner, finalEditor, Review{Headline: headline, Article: article})
	if err != nil {
		return Edited{}, err
	}
	if ed.Headline == "" {
		ed.Headline = strings.TrimSpace(headline)
	}
	return ed, nil
}
