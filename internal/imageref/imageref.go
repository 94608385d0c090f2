// Package imageref turns canonical refs into renderable image URLs and
// optionally checks that those URLs are live.
package imageref

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/playermap"
)

// Defaults for the headshot template and the liveness probe.
const (
	DefaultHost         = "a.espncdn.com"
	DefaultProbeTimeout = 3 * time.Second
	DefaultUserAgent    = "Mozilla/5.0"
)

// Template renders id refs against the ESPN image combiner with fixed crop
// dimensions.
type Template struct {
	Host string
}

// URL renders ref: url refs are returned verbatim, id refs are substituted
// into the headshot template.
func (t Template) URL(ref playermap.ExternalRef) string {
	if ref.Kind == playermap.KindURL {
		return ref.Value
	}
	host := t.Host
	if host == "" {
		host = DefaultHost
	}
	return "https://" + host + "/combiner/i?img=/i/headshots/nfl/players/full/" +
		url.PathEscape(ref.Value) + ".png&w=350&h=254&scale=crop"
}

// URL renders ref with the default template.
func URL(ref playermap.ExternalRef) string {
	return Template{}.URL(ref)
}

// TeamLogoURL renders the 500px team logo for an abbreviation.
func TeamLogoURL(host, abbr string) string {
	if host == "" {
		host = DefaultHost
	}
	return "https://" + host + "/i/teamlogos/nfl/500/" + strings.ToLower(abbr) + ".png"
}

// Prober issues HEAD requests to confirm an image URL resolves.
type Prober struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewProber creates a prober. A zero timeout takes DefaultProbeTimeout.
func NewProber(timeout time.Duration, userAgent string, logger *zap.Logger) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Live reports whether a HEAD for rawURL returns 2xx. Any transport error
// or other status counts as not live.
func (p *Prober) Live(ctx context.Context, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		p.logger.Debug("probe: bad url", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("probe: request failed", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	resp.Body.Close()

	live := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !live {
		p.logger.Debug("probe: not live", zap.String("url", rawURL), zap.Int("status", resp.StatusCode))
	}
	return live
}
