package core

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mohammad-safakhou/satirist/config"
)

// SourceProvider fetches current headlines from one news feed.
type SourceProvider interface {
	Name() string
	Fetch(ctx context.Context) ([]Candidate, error)
}

// NewSourceProviders builds a provider for every source that has an API key.
func NewSourceProviders(cfg config.SourcesConfig) []SourceProvider {
	httpc := NewHTTPClient(cfg.Timeout)
	limit := max1(cfg.MaxPerSource, 10)
	var providers []SourceProvider
	if cfg.GNews.APIKey != "" {
		providers = append(providers, &GNewsClient{cfg: cfg.GNews, max: limit, http: httpc})
	}
	if cfg.NewsAPI.APIKey != "" {
		providers = append(providers, &NewsAPIClient{cfg: cfg.NewsAPI, max: limit, http: httpc})
	}
	return providers
}

// GNewsClient implements SourceProvider using gnews.io top headlines.
type GNewsClient struct {
	cfg  config.GNewsConfig
	max  int
	http *HTTPClient
}

func (g *GNewsClient) Name() string { return "gnews" }

func (g *GNewsClient) Fetch(ctx context.Context) ([]Candidate, error) {
	endpoint := g.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://gnews.io/api/v4/top-headlines"
	}
	q := url.Values{}
	q.Set("country", defaultStr(g.cfg.Country, "in"))
	q.Set("lang", defaultStr(g.cfg.Lang, "en"))
	q.Set("token", g.cfg.APIKey)

	var resp struct {
		Articles []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"articles"`
	}
	if err := g.http.DoJSON(ctx, "GET", endpoint+"?"+q.Encode(), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("gnews: %w", err)
	}
	var out []Candidate
	for _, a := range resp.Articles {
		title := strings.TrimSpace(a.Title)
		content := cleanContent(a.Content)
		if content == "" || !eligibleTitle(title) {
			continue
		}
		out = append(out, Candidate{Title: title, Content: content})
		if len(out) == g.max {
			break
		}
	}
	return out, nil
}

// NewsAPIClient implements SourceProvider using newsapi.org top headlines.
type NewsAPIClient struct {
	cfg  config.NewsAPIConfig
	max  int
	http *HTTPClient
}

func (n *NewsAPIClient) Name() string { return "newsapi" }

func (n *NewsAPIClient) Fetch(ctx context.Context) ([]Candidate, error) {
	endpoint := n.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://newsapi.org/v2/top-headlines"
	}
	q := url.Values{}
	q.Set("country", defaultStr(n.cfg.Country, "us"))
	q.Set("apiKey", n.cfg.APIKey)

	var resp struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Content     string `json:"content"`
		} `json:"articles"`
	}
	if err := n.http.DoJSON(ctx, "GET", endpoint+"?"+q.Encode(), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi: status %q: %s", resp.Status, resp.Message)
	}
	var out []Candidate
	for _, a := range resp.Articles {
		title := strings.TrimSpace(a.Title)
		content := cleanContent(a.Content)
		if content == "" {
			content = cleanContent(a.Description)
		}
		if content == "" || title == "[Removed]" || !eligibleTitle(title) {
			continue
		}
		out = append(out, Candidate{Title: title, Content: content})
		if len(out) == n.max {
			break
		}
	}
	return out, nil
}

// eligibleTitle requires more than three words.
func eligibleTitle(title string) bool {
	return len(strings.Fields(title)) > 3
}

var truncationMarker = regexp.MustCompile(`\s*(…|\.\.\.)?\s*\[\+\d+ chars\]\s*$`)

// cleanContent strips markup and the "[+123 chars]" tail some feeds append.
func cleanContent(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	text := s
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
		text = doc.Text()
	}
	text = truncationMarker.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func max1(a, def int) int {
	if a > 0 {
		return a
	}
	return def
}
