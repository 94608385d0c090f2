// Package resolve runs the per-name resolution loop: team table, canonical
// map, then remote search, recording every miss in a coverage report.
package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/coverage"
	"github.com/albapepper/topina-data/internal/espn"
	"github.com/albapepper/topina-data/internal/imageref"
	"github.com/albapepper/topina-data/internal/match"
	"github.com/albapepper/topina-data/internal/playermap"
	"github.com/albapepper/topina-data/internal/teams"
)

// progressEvery controls how often batch progress is logged.
const progressEvery = 20

// Searcher returns search candidates for a name. Failures surface as an
// empty slice.
type Searcher interface {
	Lookup(ctx context.Context, name string) []espn.Candidate
}

// LivenessChecker confirms an image URL resolves.
type LivenessChecker interface {
	Live(ctx context.Context, url string) bool
}

// Origin says where a resolution came from.
type Origin string

const (
	OriginTeam   Origin = "team"
	OriginBulk   Origin = "bulk"
	OriginManual Origin = "manual"
	OriginAPI    Origin = "api"
	OriginNone   Origin = "none"
)

// Resolution is the outcome for one name.
type Resolution struct {
	Name   string
	Origin Origin
	Ref    playermap.ExternalRef
	URL    string

	// CandidateID is the search result id for api resolutions.
	CandidateID string

	// Probed is set when a liveness check ran; Live holds its result.
	Probed bool
	Live   bool
}

// Resolved reports whether the name produced a usable reference.
func (r Resolution) Resolved() bool {
	return r.Origin != OriginNone
}

// Options tunes a Resolver.
type Options struct {
	Teams    *teams.Tables
	Template imageref.Template
	Prober   LivenessChecker

	// Strict probes every api-resolved image. Map and team entries are
	// curated and never probed.
	Strict bool
}

// Resolver owns the canonical map for one run.
type Resolver struct {
	m        *playermap.Map
	searcher Searcher
	opts     Options
	logger   *zap.Logger
}

// New creates a resolver. A nil map behaves as an empty one.
func New(m *playermap.Map, searcher Searcher, opts Options, logger *zap.Logger) *Resolver {
	if m == nil {
		m = playermap.Merge(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{m: m, searcher: searcher, opts: opts, logger: logger}
}

// Run resolves names in the order given. Per-name failures become report
// entries. Run stops early only when ctx is cancelled, returning what was
// checked so far.
func (r *Resolver) Run(ctx context.Context, runID string, names []string) (*coverage.Report, []Resolution) {
	report := coverage.New(runID)
	out := make([]Resolution, 0, len(names))

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("resolution interrupted",
				zap.Int("checked", i), zap.Int("total", len(names)), zap.Error(err))
			break
		}
		if i > 0 && i%progressEvery == 0 {
			r.logger.Info("resolution progress", zap.Int("processed", i), zap.Int("total", len(names)))
		}

		report.Check()
		res := r.resolveOne(ctx, name, report)
		if res.Resolved() {
			report.Resolve()
		}
		out = append(out, res)
	}

	r.logger.Info("resolution complete", zap.String("run_id", runID), zap.String("summary", report.Summary()))
	return report, out
}

func (r *Resolver) resolveOne(ctx context.Context, name string, report *coverage.Report) Resolution {
	if abbr, ok := r.opts.Teams.Abbreviation(name); ok {
		u := imageref.TeamLogoURL(r.opts.Template.Host, abbr)
		return Resolution{Name: name, Origin: OriginTeam, Ref: playermap.URL(u), URL: u}
	}

	if ref, src, ok := r.m.Lookup(name); ok {
		origin := OriginBulk
		if src == playermap.SourceManual {
			origin = OriginManual
		}
		return Resolution{Name: name, Origin: origin, Ref: ref, URL: r.opts.Template.URL(ref)}
	}

	if r.searcher == nil {
		report.AddNoResults(name)
		return Resolution{Name: name, Origin: OriginNone}
	}

	candidates := r.searcher.Lookup(ctx, name)
	if len(candidates) == 0 {
		r.logger.Debug("no search results", zap.String("name", name))
		report.AddNoResults(name)
		return Resolution{Name: name, Origin: OriginNone}
	}

	outcome := match.Select(name, candidates)
	if !outcome.Matched {
		r.logger.Debug("no matching candidate", zap.String("name", name), zap.String("top", outcome.Top))
		report.AddMismatch(name, outcome.Top)
		return Resolution{Name: name, Origin: OriginNone}
	}

	res := Resolution{
		Name:        name,
		Origin:      OriginAPI,
		Ref:         playermap.URL(outcome.Image),
		URL:         outcome.Image,
		CandidateID: outcome.Candidate.ID,
	}
	if r.opts.Strict && r.opts.Prober != nil {
		res.Probed = true
		res.Live = r.opts.Prober.Live(ctx, res.URL)
		if !res.Live {
			r.logger.Warn("image not live", zap.String("name", name), zap.String("url", res.URL))
			report.AddBroken(name, string(OriginAPI), res.URL)
		}
	}
	return res
}
