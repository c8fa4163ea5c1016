package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// LikeHandler implements the like toggle endpoints for videos, comments,
// and tweets.
type LikeHandler struct {
	Likes    LikeStore
	Videos   VideoStore
	Comments CommentStore
	Tweets   TweetStore
	NowFunc  func() time.Time
}

// ToggleVideo handles POST /api/v1/likes/toggle/v/{videoId}.
func (h LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetVideo, r.PathValue("videoId"), func(ctx context.Context, id string) error {
		_, err := h.Videos.FindByID(ctx, id)
		return err
	})
}

// ToggleComment handles POST /api/v1/likes/toggle/c/{commentId}.
func (h LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetComment, r.PathValue("commentId"), func(ctx context.Context, id string) error {
		_, err := h.Comments.FindByID(ctx, id)
		return err
	})
}

// ToggleTweet handles POST /api/v1/likes/toggle/t/{tweetId}.
func (h LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.LikeTargetTweet, r.PathValue("tweetId"), func(ctx context.Context, id string) error {
		_, err := h.Tweets.FindByID(ctx, id)
		return err
	})
}

// LikedVideos handles GET /api/v1/likes/videos.
func (h LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videos, err := h.Likes.LikedVideos(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("list liked videos", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to list liked videos")
		return
	}

	respondData(ctx, w, http.StatusOK, emptyIfNil(videos), "liked videos")
}

func (h LikeHandler) toggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget, targetID string,
	exists func(ctx context.Context, id string) error) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := exists(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, string(target)+" not found")
			return
		}
		logger.Error("load like target", "error", err, "targetType", target, "targetId", targetID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to toggle like")
		return
	}

	liked, err := h.Likes.Toggle(ctx, models.Like{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		TargetType: target,
		TargetID:   targetID,
		CreatedAt:  h.now(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "like already being toggled")
			return
		}
		logger.Error("toggle like", "error", err, "targetType", target, "targetId", targetID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to toggle like")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]bool{"liked": liked}, "like toggled")
}

func (h LikeHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
