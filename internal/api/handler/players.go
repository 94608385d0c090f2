package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/topina-data/internal/api/respond"
	"github.com/albapepper/topina-data/internal/cache"
)

// GetPlayerImage returns the canonical reference and rendered image URL for
// a player name.
// @Summary Get player image reference
// @Description Returns the canonical id-or-url reference, its source (bulk or manual) and the rendered headshot URL.
// @Tags players
// @Produce json
// @Param name path string true "Player display name"
// @Success 200 {object} store.Ref
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{name}/image [get]
func (h *Handler) GetPlayerImage(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeBadRequest, "name must be a non-empty player name")
		return
	}

	h.serveCached(w, r, "player:"+name, cache.TTLPlayerRef, "player not found",
		func(ctx context.Context) (interface{}, error) {
			return h.store.GetRef(ctx, name)
		})
}

// ListPlayers returns every canonical entry in written order.
// @Summary List player image references
// @Tags players
// @Produce json
// @Param source query string false "Filter by source" Enums(bulk, manual)
// @Success 200 {array} store.Ref
// @Failure 400 {object} respond.ErrorResponse
// @Router /players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source != "" && source != "bulk" && source != "manual" {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeBadRequest, "source must be 'bulk' or 'manual'")
		return
	}

	h.serveCached(w, r, "players:"+source, cache.TTLPlayerList, "no players",
		func(ctx context.Context) (interface{}, error) {
			return h.store.ListRefs(ctx, source)
		})
}
