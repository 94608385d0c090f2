// Package store persists the canonical map and coverage runs in Postgres so
// the read API can serve them.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"

	"github.com/albapepper/topina-data/internal/config"
	"github.com/albapepper/topina-data/internal/coverage"
	"github.com/albapepper/topina-data/internal/db"
	"github.com/albapepper/topina-data/internal/imageref"
	"github.com/albapepper/topina-data/internal/playermap"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = eris.New("store: not found")

// DB is the subset of pgxpool.Pool the store needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ref is one persisted canonical entry with its rendered image URL.
type Ref struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Value    string `json:"value"`
	Source   string `json:"source"`
	ImageURL string `json:"image_url"`
}

// Run is one persisted coverage run.
type Run struct {
	ID         string                `json:"id"`
	Checked    int                   `json:"checked"`
	Resolved   int                   `json:"resolved"`
	Unresolved []coverage.Unresolved `json:"unresolved"`
	Broken     []coverage.Broken     `json:"broken"`
	CreatedAt  time.Time             `json:"created_at"`
}

// Store reads and writes through db.
type Store struct {
	db DB
}

// New creates a store.
func New(db DB) *Store {
	return &Store{db: db}
}

var refColumns = []string{"name", "kind", "value", "source", "image_url", "position"}

// PutMap replaces the persisted map with m in one transaction. Rows keep
// the written order through their position column.
func (s *Store) PutMap(ctx context.Context, m *playermap.Map, tmpl imageref.Template) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "store: begin")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, "DELETE FROM "+config.PlayerRefsTable); err != nil {
		return 0, eris.Wrap(err, "store: clear refs")
	}

	entries := m.Entries()
	rows := make([][]any, 0, len(entries))
	for i, e := range entries {
		_, src, _ := m.Lookup(e.Name)
		rows = append(rows, []any{e.Name, string(e.Ref.Kind), e.Ref.Value, string(src), tmpl.URL(e.Ref), i})
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{config.PlayerRefsTable}, refColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrap(err, "store: copy refs")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "store: commit")
	}
	return n, nil
}

// PutRun records a coverage run. An empty run id is replaced by a new one,
// which is returned.
func (s *Store) PutRun(ctx context.Context, r *coverage.Report) (string, error) {
	id := r.RunID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return "", eris.Wrapf(err, "store: run id %q", id)
	}

	unresolved, err := json.Marshal(nonNil(r.Unresolved))
	if err != nil {
		return "", eris.Wrap(err, "store: marshal unresolved")
	}
	broken, err := json.Marshal(nonNil(r.Broken))
	if err != nil {
		return "", eris.Wrap(err, "store: marshal broken")
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO `+config.CoverageRunsTable+` (id, checked, resolved, unresolved, broken)
		VALUES ($1, $2, $3, $4, $5)`,
		id, r.Checked, r.Resolved, unresolved, broken,
	)
	if err != nil {
		return "", eris.Wrap(err, "store: insert run")
	}
	return id, nil
}

// GetRef returns the persisted entry for name.
func (s *Store) GetRef(ctx context.Context, name string) (Ref, error) {
	var r Ref
	err := s.db.QueryRow(ctx, db.StmtRefByName, name).
		Scan(&r.Name, &r.Kind, &r.Value, &r.Source, &r.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ref{}, ErrNotFound
	}
	if err != nil {
		return Ref{}, eris.Wrapf(err, "store: get ref %q", name)
	}
	return r, nil
}

// ListRefs returns entries in written order, filtered by source when
// source is non-empty.
func (s *Store) ListRefs(ctx context.Context, source string) ([]Ref, error) {
	rows, err := s.db.Query(ctx, db.StmtRefsBySource, source)
	if err != nil {
		return nil, eris.Wrap(err, "store: list refs")
	}
	defer rows.Close()

	refs := []Ref{}
	for rows.Next() {
		var r Ref
		if err := rows.Scan(&r.Name, &r.Kind, &r.Value, &r.Source, &r.ImageURL); err != nil {
			return nil, eris.Wrap(err, "store: scan ref")
		}
		refs = append(refs, r)
	}
	return refs, eris.Wrap(rows.Err(), "store: iterate refs")
}

// LatestRun returns the most recent coverage run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var (
		run        Run
		unresolved []byte
		broken     []byte
	)
	err := s.db.QueryRow(ctx, db.StmtLatestRun).
		Scan(&run.ID, &run.Checked, &run.Resolved, &unresolved, &broken, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, eris.Wrap(err, "store: latest run")
	}

	if err := json.Unmarshal(unresolved, &run.Unresolved); err != nil {
		return Run{}, eris.Wrap(err, "store: decode unresolved")
	}
	if err := json.Unmarshal(broken, &run.Broken); err != nil {
		return Run{}, eris.Wrap(err, "store: decode broken")
	}
	return run, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
