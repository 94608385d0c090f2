// Package handler provides HTTP handlers for the read API. Handlers read
// through the store and cache encoded responses with ETags.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/api/respond"
	"github.com/albapepper/topina-data/internal/cache"
	"github.com/albapepper/topina-data/internal/store"
)

// Store is the read side of store.Store.
type Store interface {
	GetRef(ctx context.Context, name string) (store.Ref, error)
	ListRefs(ctx context.Context, source string) ([]store.Ref, error)
	LatestRun(ctx context.Context) (store.Run, error)
}

// HealthChecker verifies the database is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	store  Store
	db     HealthChecker
	cache  *cache.Cache
	logger *zap.Logger
}

// New creates a Handler with shared dependencies.
func New(st Store, db HealthChecker, c *cache.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: st, db: db, cache: c, logger: logger}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Topina Player Image API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// serveCached answers from cache when possible, otherwise loads, encodes and
// caches the value. store.ErrNotFound becomes a 404 with notFound as message.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration,
	notFound string, load func(ctx context.Context) (interface{}, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := load(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, notFound)
		return
	}
	if err != nil {
		h.logger.Error("load failed", zap.String("key", key), zap.Error(err))
		respond.WriteError(w, http.StatusInternalServerError, respond.CodeInternal, "Failed to load resource")
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode failed", zap.String("key", key), zap.Error(err))
		respond.WriteError(w, http.StatusInternalServerError, respond.CodeInternal, "Failed to encode resource")
		return
	}

	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}
