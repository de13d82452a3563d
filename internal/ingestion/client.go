package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the scraping platform's API root.
const DefaultBaseURL = "https://api.apify.com"

// defaultRunTimeout bounds the synchronous actor run. Profile scraping is
// slow; the run-sync endpoint holds the connection until the dataset is ready.
const defaultRunTimeout = 60 * time.Second

// Client calls a profile-scraping actor through its synchronous run endpoint.
// Calls are idempotent: the actor re-scrapes the same URLs on every run.
type Client struct {
	baseURL    string
	actorID    string
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds an actor-backed profile fetcher.
func NewClient(actorID, token string, log *zap.Logger) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		actorID:    actorID,
		token:      token,
		httpClient: &http.Client{Timeout: defaultRunTimeout},
		log:        log,
	}
}

// runInput is the actor's expected input document.
type runInput struct {
	ProfileURLs []string `json:"profileUrls"`
}

// FetchProfiles runs the scraping actor synchronously for the given URLs and
// transforms the returned dataset items into normalized profiles.
func (c *Client) FetchProfiles(ctx context.Context, urls []string) ([]Profile, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	if len(urls) > MaxURLsPerRequest {
		return nil, &Error{Message: fmt.Sprintf("batch of %d exceeds %d URLs", len(urls), MaxURLsPerRequest)}
	}
	if c.token == "" {
		return nil, &Error{Message: "scraper API token not configured"}
	}

	body, err := json.Marshal(runInput{ProfileURLs: urls})
	if err != nil {
		return nil, &Error{Message: "failed to encode actor input", Cause: err}
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, url.PathEscape(c.actorID), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("running scraping actor", zap.Int("urls", len(urls)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: "actor request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: "failed to read actor response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &Error{Message: fmt.Sprintf("actor returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))}
	}

	var items []rawItem
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, &Error{Message: "failed to decode actor dataset", Cause: err}
	}

	profiles := make([]Profile, 0, len(items))
	for i, item := range items {
		requested := ""
		if i < len(urls) {
			requested = urls[i]
		}
		profiles = append(profiles, transformItem(item, requested))
	}

	c.log.Debug("actor run complete", zap.Int("profiles", len(profiles)))
	return profiles, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
