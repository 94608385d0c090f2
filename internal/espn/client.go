// Package espn provides the ESPN search client used to resolve players the
// canonical map does not cover.
//
// Exactly one query shape is used: a player-type, NFL-scoped keyword search
// capped at a handful of results. Requests are paced by a token bucket so a
// batch of several hundred names does not trip ESPN's throttling.
package espn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/albapepper/topina-data/internal/provider"
)

// Defaults for Options.
const (
	DefaultSearchURL = "https://site.api.espn.com/apis/common/v3/search"
	DefaultLimit     = 5
	DefaultTimeout   = 5 * time.Second
	DefaultDelay     = 50 * time.Millisecond
	DefaultUserAgent = "Mozilla/5.0"
)

// Options configures a Client. Zero values take the defaults above; a
// negative Delay disables pacing.
type Options struct {
	SearchURL string
	Limit     int
	Timeout   time.Duration
	Delay     time.Duration
	UserAgent string
}

// Client queries the ESPN search endpoint.
type Client struct {
	httpClient *http.Client
	searchURL  string
	limit      int
	userAgent  string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a search client with rate limiting.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SearchURL == "" {
		opts.SearchURL = DefaultSearchURL
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		searchURL:  opts.SearchURL,
		limit:      opts.Limit,
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// Candidate is one search hit, considered for matching against the query.
type Candidate struct {
	DisplayName  string
	ID           string
	HeadshotHref string
	ImageHref    string
}

// Image returns the candidate's usable image reference: the headshot when
// present, otherwise the generic image, otherwise "".
func (c Candidate) Image() string {
	if c.HeadshotHref != "" {
		return c.HeadshotHref
	}
	return c.ImageHref
}

// Lookup searches for name and degrades every failure to an empty result.
// One player's failed lookup must never abort a batch.
func (c *Client) Lookup(ctx context.Context, name string) []Candidate {
	candidates, err := c.Search(ctx, name)
	if err != nil {
		c.logger.Warn("espn lookup failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	return candidates
}

// Search runs the authoritative player search. Any failure is returned as a
// *LookupError.
func (c *Client) Search(ctx context.Context, name string) ([]Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &LookupError{Query: name, Err: eris.Wrap(err, "rate limit wait")}
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("type", "player")
	params.Set("sport", "football")
	params.Set("league", "nfl")
	params.Set("q", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &LookupError{Query: name, Err: eris.Wrap(err, "create request")}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LookupError{Query: name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LookupError{Query: name, Err: eris.Wrap(err, "read response body")}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LookupError{
			Query:      name,
			StatusCode: resp.StatusCode,
			Err:        eris.Errorf("search returned %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}

	candidates, err := decodeCandidates(body)
	if err != nil {
		return nil, &LookupError{Query: name, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("espn search",
		zap.String("name", name),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// searchResponse is the subset of the search payload we read. Items are kept
// loose because ids arrive as strings or numbers.
type searchResponse struct {
	Items []map[string]interface{} `json:"items"`
}

func decodeCandidates(body []byte) ([]Candidate, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var sr searchResponse
	if err := dec.Decode(&sr); err != nil {
		return nil, eris.Wrap(err, "decode response")
	}

	candidates := make([]Candidate, 0, len(sr.Items))
	for _, item := range sr.Items {
		display := provider.StringField(item, "displayName")
		if display == "" {
			display = provider.StringField(item, "fullName")
		}
		candidates = append(candidates, Candidate{
			DisplayName:  display,
			ID:           provider.StringField(item, "id"),
			HeadshotHref: href(item, "headshot"),
			ImageHref:    href(item, "image"),
		})
	}
	return candidates, nil
}

func href(item map[string]interface{}, key string) string {
	obj, ok := item[key].(map[string]interface{})
	if !ok {
		return ""
	}
	return provider.StringField(obj, "href")
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return fmt.Sprintf("%s...", b[:maxLen])
}
