package repositories

import (
	"context"

	"github.com/cliptube/backend/internal/models"
)

// LikeRepository defines data access for the polymorphic like join rows.
type LikeRepository interface {
	// Toggle removes the like for (user, target) if present, otherwise creates
	// it, as a single atomic statement. It reports whether the like now exists.
	Toggle(ctx context.Context, like models.Like) (bool, error)
	LikedVideos(ctx context.Context, userID string) ([]models.Video, error)
}
