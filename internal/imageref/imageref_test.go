package imageref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/topina-data/internal/playermap"
)

func TestURL_ID(t *testing.T) {
	got := URL(playermap.ID("3139477"))
	assert.Equal(t,
		"https://a.espncdn.com/combiner/i?img=/i/headshots/nfl/players/full/3139477.png&w=350&h=254&scale=crop",
		got)
	assert.Contains(t, got, "/full/3139477.png")
}

func TestURL_URLVerbatim(t *testing.T) {
	assert.Equal(t, "https://x/y.png", URL(playermap.URL("https://x/y.png")))
}

func TestTemplate_Host(t *testing.T) {
	got := Template{Host: "img.example"}.URL(playermap.ID("1"))
	assert.Equal(t, "https://img.example/combiner/i?img=/i/headshots/nfl/players/full/1.png&w=350&h=254&scale=crop", got)
}

func TestTeamLogoURL(t *testing.T) {
	assert.Equal(t, "https://a.espncdn.com/i/teamlogos/nfl/500/bal.png", TeamLogoURL("", "BAL"))
}

func TestProber_Live(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/ok.png":
			w.WriteHeader(http.StatusOK)
		case "/no-content.png":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewProber(time.Second, "", nil)
	ctx := context.Background()
	assert.True(t, p.Live(ctx, srv.URL+"/ok.png"))
	assert.True(t, p.Live(ctx, srv.URL+"/no-content.png"))
	assert.False(t, p.Live(ctx, srv.URL+"/missing.png"))
	assert.False(t, p.Live(ctx, "://bad"))
}

func TestProber_TimeoutIsNotLive(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := NewProber(50*time.Millisecond, "", nil)
	assert.False(t, p.Live(context.Background(), srv.URL+"/slow.png"))
}
