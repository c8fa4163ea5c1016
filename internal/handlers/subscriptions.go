package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// SubscriptionHandler implements channel subscription endpoints.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	Users         UserStore
	NowFunc       func() time.Time
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	channelID := r.PathValue("channelId")
	if channelID == user.ID {
		respondError(ctx, w, http.StatusBadRequest, "cannot subscribe to your own channel")
		return
	}

	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel not found")
			return
		}
		logger.Error("load channel", "error", err, "channelId", channelID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to toggle subscription")
		return
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, models.Subscription{
		ID:           uuid.NewString(),
		SubscriberID: user.ID,
		ChannelID:    channelID,
		CreatedAt:    h.now(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "subscription already being toggled")
			return
		}
		logger.Error("toggle subscription", "error", err, "channelId", channelID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to toggle subscription")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]bool{"subscribed": subscribed}, "subscription toggled")
}

// Subscribers handles GET /api/v1/subscriptions/c/{channelId}.
func (h SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channelID := r.PathValue("channelId")
	if _, err := h.Users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel not found")
			return
		}
		logging.FromContext(ctx).Error("load channel", "error", err, "channelId", channelID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to list subscribers")
		return
	}

	subscribers, err := h.Subscriptions.Subscribers(ctx, channelID)
	if err != nil {
		logging.FromContext(ctx).Error("list subscribers", "error", err, "channelId", channelID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to list subscribers")
		return
	}

	if subscribers == nil {
		subscribers = []models.UserSummary{}
	}
	respondData(ctx, w, http.StatusOK, subscribers, "subscribers")
}

// SubscribedChannels handles GET /api/v1/subscriptions/u/{subscriberId}.
func (h SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriberID := r.PathValue("subscriberId")
	channels, err := h.Subscriptions.SubscribedChannels(ctx, subscriberID)
	if err != nil {
		logging.FromContext(ctx).Error("list subscribed channels", "error", err, "subscriberId", subscriberID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to list subscribed channels")
		return
	}

	if channels == nil {
		channels = []models.UserSummary{}
	}
	respondData(ctx, w, http.StatusOK, channels, "subscribed channels")
}

func (h SubscriptionHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
