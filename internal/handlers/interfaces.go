package handlers

import (
	"context"
	"time"

	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// UserStore captures the user persistence operations handlers depend on.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByLogin(ctx context.Context, identifier string) (models.User, error)
	UpdateProfile(ctx context.Context, id, fullName, email string, now time.Time) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error
	UpdateAvatar(ctx context.Context, id, url string, now time.Time) (string, error)
	UpdateCoverImage(ctx context.Context, id, url string, now time.Time) (string, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	RotateRefreshToken(ctx context.Context, id, current, next string) error
	ClearRefreshToken(ctx context.Context, id string) error
	ChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}

// VideoStore captures the video persistence operations handlers depend on.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	List(ctx context.Context, params repositories.ListVideosParams) ([]models.Video, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Video, error)
	Update(ctx context.Context, video models.Video) error
	Delete(ctx context.Context, id string) error
	TogglePublished(ctx context.Context, id string, now time.Time) (bool, error)
	RecordWatch(ctx context.Context, userID, videoID string, now time.Time) error
	WatchHistory(ctx context.Context, userID string, offset, limit int) ([]models.WatchEntry, error)
}

// CommentStore captures the comment persistence operations handlers depend on.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	FindByID(ctx context.Context, id string) (models.Comment, error)
	ListForVideo(ctx context.Context, videoID string, offset, limit int) ([]models.Comment, error)
	UpdateContent(ctx context.Context, id, content string, now time.Time) (models.Comment, error)
	Delete(ctx context.Context, id string) error
}

// LikeStore captures the like persistence operations handlers depend on.
type LikeStore interface {
	Toggle(ctx context.Context, like models.Like) (bool, error)
	LikedVideos(ctx context.Context, userID string) ([]models.Video, error)
}

// TweetStore captures the tweet persistence operations handlers depend on.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	FindByID(ctx context.Context, id string) (models.Tweet, error)
	ListForUser(ctx context.Context, userID string, offset, limit int) ([]models.Tweet, error)
	UpdateContent(ctx context.Context, id, content string, now time.Time) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// PlaylistStore captures the playlist persistence operations handlers depend on.
type PlaylistStore interface {
	Create(ctx context.Context, playlist models.Playlist) error
	FindByID(ctx context.Context, id string) (models.Playlist, error)
	ListForOwner(ctx context.Context, ownerID string) ([]models.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID string, now time.Time) error
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
	Update(ctx context.Context, id, name, description string, now time.Time) (models.Playlist, error)
	Delete(ctx context.Context, id string) error
}

// SubscriptionStore captures the subscription persistence operations handlers depend on.
type SubscriptionStore interface {
	Toggle(ctx context.Context, sub models.Subscription) (bool, error)
	Subscribers(ctx context.Context, channelID string) ([]models.UserSummary, error)
	SubscribedChannels(ctx context.Context, subscriberID string) ([]models.UserSummary, error)
}

// StatsStore aggregates dashboard counters for channel owners.
type StatsStore interface {
	ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error)
}

// TokenIssuer mints and verifies the bearer credentials handed to clients.
type TokenIssuer interface {
	IssuePair(userID string) (models.TokenPair, error)
	VerifyRefresh(token string) (string, error)
}

// MediaUploader relays spooled uploads into the object store.
type MediaUploader interface {
	Upload(ctx context.Context, localPath, keyPrefix string) (media.Asset, error)
	Delete(ctx context.Context, location string) error
}

// AssetCleaner schedules background deletion of replaced assets.
type AssetCleaner interface {
	Enqueue(ctx context.Context, location string) error
}
