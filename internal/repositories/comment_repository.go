package repositories

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/models"
)

// CommentRepository defines data access for video comments.
type CommentRepository interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListForVideo(ctx context.Context, videoID string, offset, limit int) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string, now time.Time) (models.Comment, error)
	Delete(ctx context.Context, id string) error
}
