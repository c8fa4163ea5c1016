package repositories

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/models"
)

// PlaylistRepository defines data access for playlists and their members.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist models.Playlist) error
	// FindByID loads a playlist along with its member videos in order.
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListForOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	// AddVideo appends a video; adding the same video twice fails with ErrConflict.
	AddVideo(ctx context.Context, playlistID, videoID string, now time.Time) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	Update(ctx context.Context, id, name, description string, now time.Time) (models.Playlist, error)
	Delete(ctx context.Context, id string) error
}
