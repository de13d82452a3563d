package ingestion

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shortlisthq/shortlist/internal/fetch"
	"github.com/shortlisthq/shortlist/internal/logger"
)

// browserTimeout bounds a single headless-browser render.
const browserTimeout = 45 * time.Second

// summaryLimit caps how much extracted page text is carried as the profile
// summary on the direct path.
const summaryLimit = 1500

// DirectFetcher extracts what it can from the public profile page itself.
// It is the fallback when no scraping actor is configured: strictly lower
// fidelity (no experience/education/skill sections), but enough for the
// scorer's heuristic tier to work with.
type DirectFetcher struct {
	useBrowser bool
	log        *zap.Logger
}

// NewDirectFetcher builds a direct page fetcher. When useBrowser is set,
// pages whose plain fetch yields too little text are re-rendered in a
// headless browser.
func NewDirectFetcher(useBrowser bool, log *zap.Logger) *DirectFetcher {
	return &DirectFetcher{useBrowser: useBrowser, log: log}
}

// FetchProfiles fetches each page sequentially. A page that cannot be fetched
// fails the whole batch, mirroring the actor path's all-or-nothing contract.
func (d *DirectFetcher) FetchProfiles(ctx context.Context, urls []string) ([]Profile, error) {
	if len(urls) > MaxURLsPerRequest {
		return nil, &Error{Message: "too many URLs for one batch"}
	}

	profiles := make([]Profile, 0, len(urls))
	for _, u := range urls {
		p, err := d.fetchOne(ctx, u)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (d *DirectFetcher) fetchOne(ctx context.Context, pageURL string) (Profile, error) {
	result, err := fetch.URL(ctx, pageURL, nil)
	if err != nil {
		return Profile{}, &Error{Message: "failed to fetch profile page", Cause: err}
	}

	html := result.HTML
	text, err := fetch.ExtractMainText(html, fetch.ProfilePageSelectors())
	if err != nil {
		return Profile{}, &Error{Message: "failed to parse profile page", Cause: err}
	}

	if fetch.ShouldUseBrowser(text) && d.useBrowser {
		d.log.Debug("page text too short, rendering in browser", zap.String("url", pageURL))
		rendered, err := fetch.WithBrowser(ctx, pageURL, browserTimeout)
		if err != nil {
			d.log.Warn("browser rendering failed, using plain fetch", zap.Error(err))
		} else {
			html = rendered
			if t, err := fetch.ExtractMainText(html, fetch.ProfilePageSelectors()); err == nil {
				text = t
			}
		}
	}

	first, last, headline := parseOGTitle(fetch.MetaProperty(html, "og:title"))

	profile := Profile{
		FirstName:  first,
		LastName:   last,
		ProfileURL: pageURL,
		Headline:   optional(headline),
		Summary:    optional(logger.Truncate(text, summaryLimit)),
	}
	if desc := fetch.MetaProperty(html, "og:description"); desc != "" && profile.Headline == nil {
		profile.Headline = optional(desc)
	}
	return profile, nil
}

// parseOGTitle splits an og:title of the form "First Last - Headline | Site"
// into its name and headline parts.
func parseOGTitle(title string) (first, last, headline string) {
	title, _, _ = strings.Cut(title, "|")
	name, rest, _ := strings.Cut(title, " - ")
	first, last = splitName(name)
	return first, last, strings.TrimSpace(rest)
}
