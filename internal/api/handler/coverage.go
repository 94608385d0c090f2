package handler

import (
	"context"
	"net/http"

	"github.com/albapepper/topina-data/internal/cache"
)

// GetLatestCoverage returns the most recent coverage run.
// @Summary Latest coverage run
// @Description Returns counts plus the unresolved and broken entries of the last validation run.
// @Tags coverage
// @Produce json
// @Success 200 {object} store.Run
// @Failure 404 {object} respond.ErrorResponse
// @Router /coverage/latest [get]
func (h *Handler) GetLatestCoverage(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "coverage:latest", cache.TTLCoverage, "no coverage runs recorded",
		func(ctx context.Context) (interface{}, error) {
			return h.store.LatestRun(ctx)
		})
}
