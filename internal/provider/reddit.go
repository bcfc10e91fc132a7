package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cryptopulse/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const (
	redditBaseURL       = "https://www.reddit.com"
	defaultRedditUA     = "cryptopulse/1.0 (crypto sentiment dashboard)"
	defaultSubreddit    = "cryptocurrency"
	hotThreadCount      = 10
	DefaultCommentLimit = 50
)

// RedditProvider scans hot discussion threads of one subreddit for
// comments mentioning a coin symbol. Reads are unauthenticated and use
// the public JSON listings; results are never cached, each analysis run
// re-fetches fresh discussion.
type RedditProvider struct {
	client    *http.Client
	baseURL   string
	userAgent string
	subreddit string
	tracer    trace.Tracer
	retry     fetch.Policy
}

func NewRedditProvider(tracer trace.Tracer, subreddit, userAgent string) *RedditProvider {
	subreddit = strings.TrimSpace(subreddit)
	if subreddit == "" {
		subreddit = defaultSubreddit
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = defaultRedditUA
	}
	return &RedditProvider{
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   redditBaseURL,
		userAgent: userAgent,
		subreddit: subreddit,
		tracer:    tracer,
		retry:     fetch.DefaultPolicy(),
	}
}

// Ping verifies the discussion feed is reachable. Run once at startup;
// an unreachable feed makes the whole session useless.
func (p *RedditProvider) Ping(ctx context.Context) error {
	_, span := p.tracer.Start(ctx, "reddit.ping")
	defer span.End()

	u := fmt.Sprintf("%s/r/%s/about.json", strings.TrimRight(p.baseURL, "/"), url.PathEscape(p.subreddit))
	_, err := fetch.Retry(ctx, p.retry, func(ctx context.Context) (struct{}, error) {
		_, err := p.doRequest(ctx, u)
		return struct{}{}, err
	})
	return err
}

// FetchComments collects up to limit comment bodies mentioning symbol
// (case-insensitive substring) from the subreddit's hot threads. All
// nested replies are expanded; thread scanning stops early once limit
// matches are collected.
func (p *RedditProvider) FetchComments(ctx context.Context, symbol string, limit int) ([]string, error) {
	_, span := p.tracer.Start(ctx, "reddit.fetch-comments")
	defer span.End()

	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if limit <= 0 {
		limit = DefaultCommentLimit
	}

	return fetch.Retry(ctx, p.retry, func(ctx context.Context) ([]string, error) {
		return p.scanHotThreads(ctx, symbol, limit)
	})
}

func (p *RedditProvider) scanHotThreads(ctx context.Context, symbol string, limit int) ([]string, error) {
	ids, err := p.fetchHotThreadIDs(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(symbol)
	comments := make([]string, 0, limit)
	for _, id := range ids {
		bodies, err := p.fetchThreadComments(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, body := range bodies {
			if strings.Contains(strings.ToLower(body), needle) {
				comments = append(comments, body)
			}
		}
		if len(comments) >= limit {
			break
		}
	}

	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (p *RedditProvider) fetchHotThreadIDs(ctx context.Context) ([]string, error) {
	base := strings.TrimRight(p.baseURL, "/")
	u := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", base, url.PathEscape(p.subreddit), hotThreadCount)

	body, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch hot threads: %w", err)
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode hot listing: %w", err)
	}

	ids := make([]string, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if id := strings.TrimSpace(child.Data.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (p *RedditProvider) fetchThreadComments(ctx context.Context, threadID string) ([]string, error) {
	base := strings.TrimRight(p.baseURL, "/")
	u := fmt.Sprintf("%s/r/%s/comments/%s.json", base, url.PathEscape(p.subreddit), url.PathEscape(threadID))

	body, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch thread %s: %w", threadID, err)
	}

	// The thread endpoint returns two listings: the submission itself,
	// then its comment tree.
	var listings []redditListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", threadID, err)
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var bodies []string
	collectCommentBodies(listings[1], &bodies)
	return bodies, nil
}

type redditListing struct {
	Data struct {
		Children []redditThing `json:"children"`
	} `json:"data"`
}

type redditThing struct {
	Kind string `json:"kind"`
	Data struct {
		ID      string          `json:"id"`
		Body    string          `json:"body"`
		Replies json.RawMessage `json:"replies"`
	} `json:"data"`
}

// collectCommentBodies walks a comment listing depth-first, expanding
// nested replies. Non-comment children ("more" stubs) are skipped.
func collectCommentBodies(listing redditListing, out *[]string) {
	for _, child := range listing.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		if body := sanitizeText(child.Data.Body, 0); body != "" {
			*out = append(*out, body)
		}
		// replies is an empty string leaf or a nested listing object
		if len(child.Data.Replies) > 0 && child.Data.Replies[0] == '{' {
			var nested redditListing
			if err := json.Unmarshal(child.Data.Replies, &nested); err == nil {
				collectCommentBodies(nested, out)
			}
		}
	}
}

func (p *RedditProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reddit API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func sanitizeText(in string, maxLen int) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	in = strings.ReplaceAll(in, "\n", " ")
	in = strings.ReplaceAll(in, "\r", " ")
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		in = in[:maxLen]
	}
	return in
}
