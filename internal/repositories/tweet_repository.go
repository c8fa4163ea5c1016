package repositories

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/models"
)

// TweetRepository defines data access for tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListForUser(ctx context.Context, userID string, offset, limit int) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string, now time.Time) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}
