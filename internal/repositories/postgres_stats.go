package repositories

import (
	"context"
	"fmt"

	"github.com/cliptube/backend/internal/db"
	"github.com/cliptube/backend/internal/models"
)

// PostgresStatsRepository computes dashboard aggregates over the core tables.
type PostgresStatsRepository struct {
	pool db.Pool
}

// NewPostgresStatsRepository constructs a stats repository backed by PostgreSQL.
func NewPostgresStatsRepository(pool db.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool}
}

// ChannelStats counts a channel's subscribers, videos, and the likes received
// across its videos, comments, and tweets.
func (r *PostgresStatsRepository) ChannelStats(ctx context.Context, ownerID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = $1),
            (SELECT COUNT(*) FROM videos v WHERE v.owner_id = $1),
            (SELECT COUNT(*) FROM likes l JOIN videos v ON v.id = l.target_id
                WHERE l.target_type = 'video' AND v.owner_id = $1),
            (SELECT COUNT(*) FROM likes l JOIN comments c ON c.id = l.target_id
                WHERE l.target_type = 'comment' AND c.owner_id = $1),
            (SELECT COUNT(*) FROM likes l JOIN tweets t ON t.id = l.target_id
                WHERE l.target_type = 'tweet' AND t.owner_id = $1)
    `, ownerID)

	var stats models.ChannelStats
	if err := row.Scan(&stats.Subscribers, &stats.Videos, &stats.VideoLikes,
		&stats.CommentLikes, &stats.TweetLikes); err != nil {
		return models.ChannelStats{}, fmt.Errorf("select channel stats: %w", err)
	}

	return stats, nil
}

var _ StatsRepository = (*PostgresStatsRepository)(nil)
