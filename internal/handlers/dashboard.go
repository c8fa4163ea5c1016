package handlers

import (
	"net/http"

	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/middleware"
)

// DashboardHandler implements the channel owner dashboard endpoints.
type DashboardHandler struct {
	Stats  StatsStore
	Videos VideoStore
}

// ChannelStats handles GET /api/v1/dashboard/stats.
func (h DashboardHandler) ChannelStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.Stats.ChannelStats(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("load channel stats", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load channel stats")
		return
	}

	respondData(ctx, w, http.StatusOK, stats, "channel stats")
}

// ChannelVideos handles GET /api/v1/dashboard/videos. Unlike the public
// catalogue this includes unpublished videos.
func (h DashboardHandler) ChannelVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videos, err := h.Videos.ListByOwner(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("list channel videos", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to list channel videos")
		return
	}

	respondData(ctx, w, http.StatusOK, emptyIfNil(videos), "channel videos")
}
