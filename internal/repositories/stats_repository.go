package repositories

import (
	"context"

	"github.com/cliptube/backend/internal/models"
)

// StatsRepository aggregates dashboard counters for channel owners.
type StatsRepository interface {
	ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error)
}
