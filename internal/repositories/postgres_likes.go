package repositories

import (
	"context"
	"fmt"

	"github.com/cliptube/backend/internal/db"
	"github.com/cliptube/backend/internal/models"
)

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Toggle deletes the like row for (user, target) if it exists, otherwise
// inserts one, all in a single statement. The unique index on
// (user_id, target_type, target_id) backstops concurrent inserts; a
// violation surfaces as ErrConflict.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, like models.Like) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        WITH removed AS (
            DELETE FROM likes
            WHERE user_id = $2 AND target_type = $3 AND target_id = $4
            RETURNING id
        )
        INSERT INTO likes (id, user_id, target_type, target_id, created_at)
        SELECT $1, $2, $3, $4, $5
        WHERE NOT EXISTS (SELECT 1 FROM removed)
    `, like.ID, like.UserID, like.TargetType, like.TargetID, like.CreatedAt)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return false, mapped
		}
		return false, fmt.Errorf("toggle like: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// LikedVideos returns the videos a user has liked, most recent like first.
func (r *PostgresLikeRepository) LikedVideos(ctx context.Context, userID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT`+videoWithOwnerColumns+`
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        JOIN users u ON u.id = v.owner_id
        WHERE l.user_id = $1 AND l.target_type = 'video'
        ORDER BY l.created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	return collectVideos(rows)
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
