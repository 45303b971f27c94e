package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/satirist/internal/store"
)

// Disclaimer is appended to every submitted article body.
const Disclaimer = "\n\n---\n" +
	"**Disclaimer:** This article is a work of satire and is entirely fictional. It is not intended to be taken as a factual account. " +
	"Any resemblance to actual events, locales, or persons, living or dead, is purely coincidental."

// Publisher hands a finished article to the content store as a draft.
type Publisher interface {
	Submit(ctx context.Context, in store.ArticleInput) error
}

// NewSubmission builds the create-draft payload for an edited article.
func NewSubmission(ed Edited, author string) store.ArticleInput {
	return store.ArticleInput{
		Headline: ed.Headline,
		Content:  ed.Article + Disclaimer,
		Author:   author,
		Category: ed.Category,
	}
}

// HTTPPublisher posts drafts to the content API, which answers 201 Created.
type HTTPPublisher struct {
	Endpoint string
	http     *HTTPClient
}

func NewHTTPPublisher(endpoint string, timeout time.Duration) *HTTPPublisher {
	return &HTTPPublisher{Endpoint: endpoint, http: NewHTTPClient(timeout)}
}

func (p *HTTPPublisher) Submit(ctx context.Context, in store.ArticleInput) error {
	var created store.Article
	code, err := p.http.DoJSONStatus(ctx, http.MethodPost, p.Endpoint, nil, in, &created)
	if err != nil {
		return fmt.Errorf("submit article: %w", err)
	}
	if code != http.StatusCreated {
		return fmt.Errorf("submit article: %w", &StatusError{Code: code, Status: http.StatusText(code), Body: "expected 201 Created"})
	}
	return nil
}

// StorePublisher writes drafts straight into a store, skipping HTTP.
type StorePublisher struct {
	Store store.Store
}

func (p *StorePublisher) Submit(ctx context.Context, in store.ArticleInput) error {
	if _, err := p.Store.Create(ctx, in); err != nil {
		return fmt.Errorf("store article: %w", err)
	}
	return nil
}
