// Package search retrieves ranked snippets from an external search index,
// restricted to the campus domain. Context is optional enrichment: any
// failure or missing configuration yields an empty result, never an error.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/opencampus/portal/internal/logger"
)

// MaxResults bounds how many snippets a query returns.
const MaxResults = 5

// Snippet is one ranked search result. Ephemeral, never persisted.
type Snippet struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Excerpt string `json:"excerpt"`
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Retriever queries the search API with a site restriction.
type Retriever struct {
	http     *resty.Client
	apiKey   string
	engineID string
	domain   string
	log      logger.Logger
}

func NewRetriever(baseURL, apiKey, engineID, domain string, timeout time.Duration, log logger.Logger) *Retriever {
	return &Retriever{
		http:     resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey:   apiKey,
		engineID: engineID,
		domain:   domain,
		log:      log,
	}
}

// Enabled reports whether the search provider is configured at all.
func (r *Retriever) Enabled() bool {
	return r.apiKey != "" && r.engineID != ""
}

// Retrieve returns up to MaxResults snippets for the query, scoped to the
// campus domain. Unconfigured provider, transport failure, or an empty
// result set all come back as an empty slice.
func (r *Retriever) Retrieve(ctx context.Context, query string) []Snippet {
	if !r.Enabled() {
		return nil
	}

	scoped := query
	if r.domain != "" {
		scoped = fmt.Sprintf("%s site:%s", query, r.domain)
	}

	resp, err := r.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": r.apiKey,
			"cx":  r.engineID,
			"q":   scoped,
			"num": fmt.Sprintf("%d", MaxResults),
		}).
		Get("")
	if err != nil {
		r.log.Warn("context search failed", logger.Error(err))
		return nil
	}
	if resp.IsError() {
		r.log.Warn("context search rejected", logger.Int("status", resp.StatusCode()))
		return nil
	}

	var sr searchResponse
	if err := json.Unmarshal(resp.Body(), &sr); err != nil {
		r.log.Warn("context search returned unparseable body", logger.Error(err))
		return nil
	}

	snippets := make([]Snippet, 0, MaxResults)
	for _, item := range sr.Items {
		snippets = append(snippets, Snippet{Title: item.Title, Link: item.Link, Excerpt: item.Snippet})
		if len(snippets) == MaxResults {
			break
		}
	}
	return snippets
}
