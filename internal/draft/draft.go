// Package draft collects the drafted player names of each season, which are
// the names the headshot map has to cover.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/provider"
)

// FileName is the per-season document name, e.g. draft_data_2024.json.
func FileName(season int) string {
	return fmt.Sprintf("draft_data_%d.json", season)
}

// Source fetches one season's draft document. ok=false means the season
// does not exist and is skipped.
type Source interface {
	Season(ctx context.Context, season int) (data []byte, ok bool, err error)
}

// DirSource reads documents from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Season(_ context.Context, season int) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir, FileName(season)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, eris.Wrapf(err, "draft: read season %d", season)
	}
	return data, true, nil
}

// RemoteSource reads documents from the realtime database REST endpoint:
// <base>/draft/draft_data_<year>.json.
type RemoteSource struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewRemoteSource creates a remote source with a bounded request timeout.
func NewRemoteSource(baseURL string) *RemoteSource {
	return &RemoteSource{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *RemoteSource) Season(ctx context.Context, season int) ([]byte, bool, error) {
	u := s.BaseURL + "/draft/" + FileName(season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, eris.Wrap(err, "draft: create request")
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, false, eris.Wrapf(err, "draft: fetch season %d", season)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, eris.Wrapf(err, "draft: read season %d", season)
	}
	// The realtime database answers "null" for a missing path.
	if strings.TrimSpace(string(data)) == "null" {
		return nil, false, nil
	}
	return data, true, nil
}

// Names extracts pick names from one season document. Only the object form
// of "teams" (team name → list of picks) is understood; other shapes yield
// no names.
func Names(data []byte) ([]string, error) {
	var doc struct {
		Teams json.RawMessage `json:"teams"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "draft: decode document")
	}

	var teams map[string][]map[string]interface{}
	if len(doc.Teams) == 0 || json.Unmarshal(doc.Teams, &teams) != nil {
		return nil, nil
	}

	// Team iteration order does not matter; callers dedupe and sort.
	var names []string
	for _, picks := range teams {
		for _, pick := range picks {
			if name := provider.StringField(pick, "name"); name != "" {
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// Collect gathers the unique drafted names across seasons, sorted. A season
// that is missing, unreachable or malformed is logged and skipped.
func Collect(ctx context.Context, src Source, seasons []int, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[string]struct{})
	for _, season := range seasons {
		data, ok, err := src.Season(ctx, season)
		if err != nil {
			logger.Warn("draft season unavailable", zap.Int("season", season), zap.Error(err))
			continue
		}
		if !ok {
			logger.Debug("draft season missing", zap.Int("season", season))
			continue
		}

		names, err := Names(data)
		if err != nil {
			logger.Warn("draft season malformed", zap.Int("season", season), zap.Error(err))
			continue
		}
		for _, n := range names {
			seen[n] = struct{}{}
		}
		logger.Info("draft season loaded", zap.Int("season", season), zap.Int("picks", len(names)))
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Seasons expands an inclusive range.
func Seasons(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, y)
	}
	return out
}
