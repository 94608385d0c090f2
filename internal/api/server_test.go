package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/topina-data/internal/api/respond"
	"github.com/albapepper/topina-data/internal/cache"
	"github.com/albapepper/topina-data/internal/config"
	"github.com/albapepper/topina-data/internal/coverage"
	"github.com/albapepper/topina-data/internal/store"
)

type fakeStore struct {
	refs     []store.Ref
	run      *store.Run
	getCalls int
}

func (f *fakeStore) GetRef(_ context.Context, name string) (store.Ref, error) {
	f.getCalls++
	for _, r := range f.refs {
		if r.Name == name {
			return r, nil
		}
	}
	return store.Ref{}, store.ErrNotFound
}

func (f *fakeStore) ListRefs(_ context.Context, source string) ([]store.Ref, error) {
	out := []store.Ref{}
	for _, r := range f.refs {
		if source == "" || r.Source == source {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) LatestRun(context.Context) (store.Run, error) {
	if f.run == nil {
		return store.Run{}, store.ErrNotFound
	}
	return *f.run, nil
}

type fakeDB struct{ err error }

func (f fakeDB) HealthCheck(context.Context) error { return f.err }

func newTestServer(t *testing.T, st *fakeStore, db fakeDB, cfg config.APIConfig) *httptest.Server {
	t.Helper()
	c := cache.New(true)
	t.Cleanup(c.Close)
	srv := httptest.NewServer(NewRouter(st, db, c, cfg, nil))
	t.Cleanup(srv.Close)
	return srv
}

func sampleStore() *fakeStore {
	return &fakeStore{refs: []store.Ref{
		{Name: "Patrick Mahomes", Kind: "id", Value: "3139477", Source: "bulk",
			ImageURL: "https://a.espncdn.com/combiner/i?img=/i/headshots/nfl/players/full/3139477.png&w=350&h=254&scale=crop"},
		{Name: "Julio Jones", Kind: "url", Value: "https://x/13982.png", Source: "manual", ImageURL: "https://x/13982.png"},
	}}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, sampleStore(), fakeDB{}, config.APIConfig{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Process-Time"))
}

func TestHealthDB_Unavailable(t *testing.T) {
	srv := newTestServer(t, sampleStore(), fakeDB{err: assert.AnError}, config.APIConfig{})

	resp, err := http.Get(srv.URL + "/health/db")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGetPlayerImage_CachedWithETag(t *testing.T) {
	st := sampleStore()
	srv := newTestServer(t, st, fakeDB{}, config.APIConfig{})

	resp, err := http.Get(srv.URL + "/api/v1/players/Julio%20Jones/image")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	var ref store.Ref
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ref))
	assert.Equal(t, "manual", ref.Source)
	assert.Equal(t, "https://x/13982.png", ref.ImageURL)

	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/players/Julio%20Jones/image", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotModified, resp2.StatusCode)
	assert.Equal(t, 1, st.getCalls)
}

func TestGetPlayerImage_NotFound(t *testing.T) {
	srv := newTestServer(t, sampleStore(), fakeDB{}, config.APIConfig{})

	resp, err := http.Get(srv.URL + "/api/v1/players/Nobody/image")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body respond.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, respond.CodeNotFound, body.Error.Code)
}

func TestListPlayers(t *testing.T) {
	srv := newTestServer(t, sampleStore(), fakeDB{}, config.APIConfig{})

	resp, err := http.Get(srv.URL + "/api/v1/players?source=manual")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refs []store.Ref
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&refs))
	require.Len(t, refs, 1)
	assert.Equal(t, "Julio Jones", refs[0].Name)

	bad, err := http.Get(srv.URL + "/api/v1/players?source=api")
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestLatestCoverage(t *testing.T) {
	st := sampleStore()
	srv := newTestServer(t, st, fakeDB{}, config.APIConfig{})

	resp, err := http.Get(srv.URL + "/api/v1/coverage/latest")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	st.run = &store.Run{
		ID: "run-1", Checked: 3, Resolved: 2,
		Unresolved: []coverage.Unresolved{{Name: "Z", Reason: coverage.ReasonNoResults}},
		CreatedAt:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	resp, err = http.Get(srv.URL + "/api/v1/coverage/latest")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run store.Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, 3, run.Checked)
	assert.Equal(t, "Z", run.Unresolved[0].Name)
}

func TestRateLimit(t *testing.T) {
	cfg := config.APIConfig{RateLimitEnabled: true, RateLimitRequests: 2, RateLimitWindow: time.Hour}
	srv := newTestServer(t, sampleStore(), fakeDB{}, cfg)

	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
