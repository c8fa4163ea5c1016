package repositories

import (
	"context"

	"github.com/cliptube/backend/internal/models"
)

// SubscriptionRepository defines data access for channel subscriptions.
type SubscriptionRepository interface {
	// Toggle removes the subscription if present, otherwise creates it, as a
	// single atomic statement. It reports whether the subscription now exists.
	Toggle(ctx context.Context, sub models.Subscription) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]models.UserSummary, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]models.UserSummary, error)
}
