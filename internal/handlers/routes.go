package handlers

import (
	"net/http"
	"time"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Likes         LikeStore
	Tweets        TweetStore
	Playlists     PlaylistStore
	Subscriptions SubscriptionStore
	Stats         StatsStore

	Tokens  TokenIssuer
	Media   MediaUploader
	Cleanup AssetCleaner

	AuthLimiter RateLimiter
	RequireAuth func(http.Handler) http.Handler

	CookieSecure bool
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UploadDir    string
	MaxJSONBytes int64
	MaxFileBytes int64
	NowFunc      func() time.Time
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	requireAuth := deps.RequireAuth
	if requireAuth == nil {
		requireAuth = func(next http.Handler) http.Handler { return next }
	}

	health := HealthHandler{}
	users := UserHandler{
		Users:        deps.Users,
		Videos:       deps.Videos,
		Tokens:       deps.Tokens,
		Media:        deps.Media,
		Cleanup:      deps.Cleanup,
		Limiter:      deps.AuthLimiter,
		CookieSecure: deps.CookieSecure,
		AccessTTL:    deps.AccessTTL,
		RefreshTTL:   deps.RefreshTTL,
		MaxJSONBytes: deps.MaxJSONBytes,
		UploadDir:    deps.UploadDir,
		MaxFileBytes: deps.MaxFileBytes,
		NowFunc:      deps.NowFunc,
	}
	videos := VideoHandler{
		Videos:       deps.Videos,
		Media:        deps.Media,
		Cleanup:      deps.Cleanup,
		UploadDir:    deps.UploadDir,
		MaxFileBytes: deps.MaxFileBytes,
		NowFunc:      deps.NowFunc,
	}
	comments := CommentHandler{
		Comments:     deps.Comments,
		Videos:       deps.Videos,
		MaxJSONBytes: deps.MaxJSONBytes,
		NowFunc:      deps.NowFunc,
	}
	likes := LikeHandler{
		Likes:    deps.Likes,
		Videos:   deps.Videos,
		Comments: deps.Comments,
		Tweets:   deps.Tweets,
		NowFunc:  deps.NowFunc,
	}
	tweets := TweetHandler{
		Tweets:       deps.Tweets,
		MaxJSONBytes: deps.MaxJSONBytes,
		NowFunc:      deps.NowFunc,
	}
	playlists := PlaylistHandler{
		Playlists:    deps.Playlists,
		Videos:       deps.Videos,
		MaxJSONBytes: deps.MaxJSONBytes,
		NowFunc:      deps.NowFunc,
	}
	subscriptions := SubscriptionHandler{
		Subscriptions: deps.Subscriptions,
		Users:         deps.Users,
		NowFunc:       deps.NowFunc,
	}
	dashboard := DashboardHandler{
		Stats:  deps.Stats,
		Videos: deps.Videos,
	}

	protected := func(handler http.HandlerFunc) http.Handler {
		return requireAuth(handler)
	}

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.HandleFunc("POST /api/v1/users/login", users.Login)
	mux.HandleFunc("POST /api/v1/users/refresh-token", users.Refresh)
	mux.Handle("POST /api/v1/users/logout", protected(users.Logout))
	mux.Handle("GET /api/v1/users/current-user", protected(users.CurrentUser))
	mux.Handle("POST /api/v1/users/change-password", protected(users.ChangePassword))
	mux.Handle("PATCH /api/v1/users/update-account", protected(users.UpdateAccount))
	mux.Handle("PATCH /api/v1/users/avatar", protected(users.UpdateAvatar))
	mux.Handle("PATCH /api/v1/users/cover-image", protected(users.UpdateCoverImage))
	mux.Handle("GET /api/v1/users/c/{username}", protected(users.ChannelProfile))
	mux.Handle("GET /api/v1/users/history", protected(users.WatchHistory))

	mux.Handle("GET /api/v1/videos", protected(videos.List))
	mux.Handle("POST /api/v1/videos", protected(videos.Publish))
	mux.Handle("GET /api/v1/videos/{videoId}", protected(videos.Get))
	mux.Handle("PATCH /api/v1/videos/{videoId}", protected(videos.Update))
	mux.Handle("DELETE /api/v1/videos/{videoId}", protected(videos.Delete))
	mux.Handle("PATCH /api/v1/videos/toggle/publish/{videoId}", protected(videos.TogglePublish))

	mux.Handle("GET /api/v1/comments/{videoId}", protected(comments.ListForVideo))
	mux.Handle("POST /api/v1/comments/{videoId}", protected(comments.Create))
	mux.Handle("PATCH /api/v1/comments/c/{commentId}", protected(comments.Update))
	mux.Handle("DELETE /api/v1/comments/c/{commentId}", protected(comments.Delete))

	mux.Handle("POST /api/v1/likes/toggle/v/{videoId}", protected(likes.ToggleVideo))
	mux.Handle("POST /api/v1/likes/toggle/c/{commentId}", protected(likes.ToggleComment))
	mux.Handle("POST /api/v1/likes/toggle/t/{tweetId}", protected(likes.ToggleTweet))
	mux.Handle("GET /api/v1/likes/videos", protected(likes.LikedVideos))

	mux.Handle("POST /api/v1/tweets", protected(tweets.Create))
	mux.Handle("GET /api/v1/tweets/user/{userId}", protected(tweets.ListForUser))
	mux.Handle("PATCH /api/v1/tweets/{tweetId}", protected(tweets.Update))
	mux.Handle("DELETE /api/v1/tweets/{tweetId}", protected(tweets.Delete))

	mux.Handle("POST /api/v1/playlists", protected(playlists.Create))
	mux.Handle("GET /api/v1/playlists/{playlistId}", protected(playlists.Get))
	mux.Handle("GET /api/v1/playlists/user/{userId}", protected(playlists.ListForUser))
	mux.Handle("PATCH /api/v1/playlists/add/{videoId}/{playlistId}", protected(playlists.AddVideo))
	mux.Handle("PATCH /api/v1/playlists/remove/{videoId}/{playlistId}", protected(playlists.RemoveVideo))
	mux.Handle("PATCH /api/v1/playlists/{playlistId}", protected(playlists.Update))
	mux.Handle("DELETE /api/v1/playlists/{playlistId}", protected(playlists.Delete))

	mux.Handle("POST /api/v1/subscriptions/c/{channelId}", protected(subscriptions.Toggle))
	mux.Handle("GET /api/v1/subscriptions/c/{channelId}", protected(subscriptions.Subscribers))
	mux.Handle("GET /api/v1/subscriptions/u/{subscriberId}", protected(subscriptions.SubscribedChannels))

	mux.Handle("GET /api/v1/dashboard/stats", protected(dashboard.ChannelStats))
	mux.Handle("GET /api/v1/dashboard/videos", protected(dashboard.ChannelVideos))
}
