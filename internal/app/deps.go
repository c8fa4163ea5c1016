package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/cliptube/backend/internal/auth"
	"github.com/cliptube/backend/internal/config"
	"github.com/cliptube/backend/internal/db"
	"github.com/cliptube/backend/internal/handlers"
	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/repositories"
	"github.com/cliptube/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup stops background workers and must run after
// the HTTP server has drained.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(context.Context) error, error) {
	tokens, err := auth.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	probe := media.NewFFProbe(cfg.FFProbePath, cfg.FFProbeTimeout)
	relay := media.NewRelay(store, probe, logger)
	janitor := media.NewJanitor(store, logger, cfg.JanitorQueueSize, cfg.JanitorWorkers)

	users := repositories.NewPostgresUserRepository(pool)

	deps := handlers.Dependencies{
		Users:         users,
		Videos:        repositories.NewPostgresVideoRepository(pool),
		Comments:      repositories.NewPostgresCommentRepository(pool),
		Likes:         repositories.NewPostgresLikeRepository(pool),
		Tweets:        repositories.NewPostgresTweetRepository(pool),
		Playlists:     repositories.NewPostgresPlaylistRepository(pool),
		Subscriptions: repositories.NewPostgresSubscriptionRepository(pool),
		Stats:         repositories.NewPostgresStatsRepository(pool),

		Tokens:  tokens,
		Media:   relay,
		Cleanup: janitor,

		AuthLimiter: middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
		RequireAuth: middleware.RequireAuth(users, tokens),

		CookieSecure: cfg.CookieSecure,
		AccessTTL:    cfg.AccessTokenTTL,
		RefreshTTL:   cfg.RefreshTokenTTL,
		UploadDir:    cfg.UploadDir,
		MaxJSONBytes: cfg.MaxJSONBytes,
		MaxFileBytes: cfg.MaxFileBytes,
	}

	return deps, janitor.Shutdown, nil
}
