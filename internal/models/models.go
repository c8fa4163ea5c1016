package models

import "time"

// User represents an account within the ClipTube platform. A user is also a
// channel: other users subscribe to it and its published videos form the
// channel catalogue.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Password      string    `json:"-"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	RefreshToken  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserSummary is the public projection embedded in owned resources.
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatar"`
}

// Summary strips a user down to the fields safe to embed in responses.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// TokenPair groups the bearer credentials issued to authenticated users.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Video is an uploaded clip with its backing media assets.
type Video struct {
	ID           string      `json:"id"`
	OwnerID      string      `json:"ownerId"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	VideoURL     string      `json:"videoFile"`
	ThumbnailURL string      `json:"thumbnail"`
	Duration     float64     `json:"duration"`
	Published    bool        `json:"isPublished"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Owner        UserSummary `json:"owner,omitzero"`
}

// Comment belongs to exactly one video.
type Comment struct {
	ID        string      `json:"id"`
	VideoID   string      `json:"videoId"`
	OwnerID   string      `json:"ownerId"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Owner     UserSummary `json:"owner,omitzero"`
}

// LikeTarget discriminates which kind of entity a like points at.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether the target kind is one of the known variants.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Like is a tagged join row: at most one per (user, target kind, target id).
type Like struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	TargetType LikeTarget `json:"targetType"`
	TargetID   string     `json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Tweet is a short status post owned by a user.
type Tweet struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"ownerId"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Owner     UserSummary `json:"owner,omitzero"`
	LikeCount int64       `json:"likeCount"`
}

// Playlist is an ordered collection of video references.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Videos      []Video   `json:"videos,omitempty"`
}

// Subscription is a join row: subscriber follows channel (both users).
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ChannelProfile is the aggregated public view of a user's channel.
type ChannelProfile struct {
	UserSummary
	CoverImageURL   string `json:"coverImage,omitempty"`
	SubscriberCount int64  `json:"subscriberCount"`
	SubscribedTo    int64  `json:"channelsSubscribedTo"`
	IsSubscribed    bool   `json:"isSubscribed"`
}

// WatchEntry records that a user viewed a video.
type WatchEntry struct {
	Video     Video     `json:"video"`
	WatchedAt time.Time `json:"watchedAt"`
}

// ChannelStats aggregates dashboard counters for a channel owner.
type ChannelStats struct {
	Subscribers  int64 `json:"subscribers"`
	Videos       int64 `json:"videos"`
	VideoLikes   int64 `json:"videoLikes"`
	CommentLikes int64 `json:"commentLikes"`
	TweetLikes   int64 `json:"tweetLikes"`
}
