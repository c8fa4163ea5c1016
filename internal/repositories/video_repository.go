package repositories

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/models"
)

// VideoSort names the columns the catalogue listing may order by.
type VideoSort string

const (
	VideoSortCreatedAt VideoSort = "createdAt"
	VideoSortDuration  VideoSort = "duration"
	VideoSortTitle     VideoSort = "title"
)

// ListVideosParams scopes and paginates the published-video catalogue.
type ListVideosParams struct {
	Query   string
	SortBy  VideoSort
	SortAsc bool
	Offset  int
	Limit   int
}

// VideoRepository exposes data access for uploaded videos and watch history.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	List(ctx context.Context, params ListVideosParams) ([]models.Video, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	// TogglePublished flips the publish flag and reports the new state.
	TogglePublished(ctx context.Context, id string, now time.Time) (bool, error)

	RecordWatch(ctx context.Context, userID, videoID string, now time.Time) error
	WatchHistory(ctx context.Context, userID string, offset, limit int) ([]models.WatchEntry, error)
}
