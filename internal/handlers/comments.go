package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// CommentHandler implements comment endpoints for videos.
type CommentHandler struct {
	Comments     CommentStore
	Videos       VideoStore
	MaxJSONBytes int64
	NowFunc      func() time.Time
}

type commentRequest struct {
	Content string `json:"content"`
}

// ListForVideo handles GET /api/v1/comments/{videoId}.
func (h CommentHandler) ListForVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset, limit, err := pageParams(r)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	videoID := r.PathValue("videoId")
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logging.FromContext(ctx).Error("load video", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load comments")
		return
	}

	comments, err := h.Comments.ListForVideo(ctx, videoID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list comments", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load comments")
		return
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	respondData(ctx, w, http.StatusOK, comments, "comments")
}

// Create handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	content, ok := h.readContent(w, r)
	if !ok {
		return
	}

	videoID := r.PathValue("videoId")
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logger.Error("load video", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to add comment")
		return
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   user.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Owner:     user.Summary(),
	}

	if err := h.Comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logger.Error("create comment", "error", err, "videoId", videoID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to add comment")
		return
	}

	respondData(ctx, w, http.StatusCreated, comment, "comment added")
}

// Update handles PATCH /api/v1/comments/c/{commentId}.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, user, ok := h.ownedComment(w, r)
	if !ok {
		return
	}

	content, ok := h.readContent(w, r)
	if !ok {
		return
	}

	updated, err := h.Comments.UpdateContent(ctx, comment.ID, content, h.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "comment not found")
			return
		}
		logging.FromContext(ctx).Error("update comment", "error", err, "commentId", comment.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to update comment")
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "comment updated")
}

// Delete handles DELETE /api/v1/comments/c/{commentId}.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, user, ok := h.ownedComment(w, r)
	if !ok {
		return
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "comment not found")
			return
		}
		logging.FromContext(ctx).Error("delete comment", "error", err, "commentId", comment.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to delete comment")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "comment deleted")
}

func (h CommentHandler) ownedComment(w http.ResponseWriter, r *http.Request) (models.Comment, models.User, bool) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.Comment{}, models.User{}, false
	}

	commentID := r.PathValue("commentId")
	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "comment not found")
			return models.Comment{}, models.User{}, false
		}
		logging.FromContext(ctx).Error("load comment", "error", err, "commentId", commentID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load comment")
		return models.Comment{}, models.User{}, false
	}

	if comment.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this comment")
		return models.Comment{}, models.User{}, false
	}

	return comment, user, true
}

func (h CommentHandler) readContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	maxBytes := h.MaxJSONBytes
	if maxBytes <= 0 {
		maxBytes = 16 << 10
	}

	var req commentRequest
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBytes)).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return "", false
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(ctx, w, http.StatusBadRequest, "content is required")
		return "", false
	}

	return content, true
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
