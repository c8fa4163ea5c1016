package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// VideoHandler implements the video catalogue and upload endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Media   MediaUploader
	Cleanup AssetCleaner

	UploadDir    string
	MaxFileBytes int64
	NowFunc      func() time.Time
}

// List handles GET /api/v1/videos. The catalogue contains published videos
// only; passing userId returns that owner's videos instead, with unpublished
// ones visible to the owner alone.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if ownerID := strings.TrimSpace(r.URL.Query().Get("userId")); ownerID != "" {
		videos, err := h.Videos.ListByOwner(ctx, ownerID)
		if err != nil {
			logger.Error("list videos by owner", "error", err, "ownerId", ownerID)
			respondError(ctx, w, http.StatusInternalServerError, "unable to list videos")
			return
		}
		if viewer, ok := middleware.UserFromContext(ctx); !ok || viewer.ID != ownerID {
			published := make([]models.Video, 0, len(videos))
			for _, video := range videos {
				if video.Published {
					published = append(published, video)
				}
			}
			videos = published
		}
		respondData(ctx, w, http.StatusOK, emptyIfNil(videos), "videos")
		return
	}

	offset, limit, err := pageParams(r)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	params := repositories.ListVideosParams{
		Query:  strings.TrimSpace(r.URL.Query().Get("query")),
		Offset: offset,
		Limit:  limit,
	}

	switch sortBy := r.URL.Query().Get("sortBy"); sortBy {
	case "", string(repositories.VideoSortCreatedAt):
		params.SortBy = repositories.VideoSortCreatedAt
	case string(repositories.VideoSortDuration):
		params.SortBy = repositories.VideoSortDuration
	case string(repositories.VideoSortTitle):
		params.SortBy = repositories.VideoSortTitle
	default:
		respondError(ctx, w, http.StatusBadRequest, "sortBy must be one of createdAt, duration, title")
		return
	}
	params.SortAsc = r.URL.Query().Get("sortType") == "asc"

	videos, err := h.Videos.List(ctx, params)
	if err != nil {
		logger.Error("list videos", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "unable to list videos")
		return
	}

	respondData(ctx, w, http.StatusOK, emptyIfNil(videos), "videos")
}

// Publish handles POST /api/v1/videos. Both the clip and its thumbnail are
// relayed to the object store before the row is written; if any step fails
// the already-stored assets are deleted.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*h.MaxFileBytes)
	if err := r.ParseMultipartForm(h.MaxFileBytes); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" {
		respondError(ctx, w, http.StatusBadRequest, "title is required")
		return
	}

	videoPath, err := spoolUpload(r, "videoFile", h.UploadDir, h.MaxFileBytes, "video/")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	defer discardSpooled(ctx, videoPath)

	thumbPath, err := spoolUpload(r, "thumbnail", h.UploadDir, h.MaxFileBytes, "image/")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	defer discardSpooled(ctx, thumbPath)

	rollback := media.NewRollback(h.Media, logger)
	defer rollback.Run(ctx)

	videoAsset, err := h.Media.Upload(ctx, videoPath, "videos")
	if err != nil {
		logger.Error("upload video", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store video")
		return
	}
	rollback.Track(videoAsset.URL)

	thumbAsset, err := h.Media.Upload(ctx, thumbPath, "thumbnails")
	if err != nil {
		logger.Error("upload thumbnail", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
		return
	}
	rollback.Track(thumbAsset.URL)

	now := h.now()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      user.ID,
		Title:        title,
		Description:  description,
		VideoURL:     videoAsset.URL,
		ThumbnailURL: thumbAsset.URL,
		Duration:     videoAsset.Duration,
		Published:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Owner:        user.Summary(),
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("create video row", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to publish video")
		return
	}

	rollback.Discard()
	respondData(ctx, w, http.StatusCreated, video, "video published")
}

// Get handles GET /api/v1/videos/{videoId} and records the view in the
// caller's watch history.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	videoID := r.PathValue("videoId")
	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logger.Error("load video", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load video")
		return
	}

	if err := h.Videos.RecordWatch(ctx, user.ID, videoID, h.now()); err != nil {
		logger.Warn("record watch", "error", err, "videoId", videoID, "userId", user.ID)
	}

	respondData(ctx, w, http.StatusOK, video, "video")
}

// Update handles PATCH /api/v1/videos/{videoId}. Title and description come
// from form values; an optional thumbnail file replaces the existing one.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, user, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.MaxFileBytes); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		video.Title = title
	}
	if description := strings.TrimSpace(r.FormValue("description")); description != "" {
		video.Description = description
	}

	var replacedThumb string
	if hasFormFile(r, "thumbnail") {
		thumbPath, err := spoolUpload(r, "thumbnail", h.UploadDir, h.MaxFileBytes, "image/")
		if err != nil {
			respondError(ctx, w, http.StatusBadRequest, err.Error())
			return
		}
		defer discardSpooled(ctx, thumbPath)
		asset, err := h.Media.Upload(ctx, thumbPath, "thumbnails")
		if err != nil {
			logger.Error("upload thumbnail", "error", err, "videoId", video.ID)
			respondError(ctx, w, http.StatusInternalServerError, "failed to store thumbnail")
			return
		}
		replacedThumb = video.ThumbnailURL
		video.ThumbnailURL = asset.URL
	}

	video.UpdatedAt = h.now()
	if err := h.Videos.Update(ctx, video); err != nil {
		if replacedThumb != "" {
			if delErr := h.Media.Delete(ctx, video.ThumbnailURL); delErr != nil {
				logger.Warn("rollback stored thumbnail", "error", delErr, "location", video.ThumbnailURL)
			}
		}
		logger.Error("update video", "error", err, "videoId", video.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to update video")
		return
	}

	if replacedThumb != "" && h.Cleanup != nil {
		if err := h.Cleanup.Enqueue(ctx, replacedThumb); err != nil {
			logger.Warn("enqueue replaced thumbnail for deletion", "error", err, "location", replacedThumb)
		}
	}

	respondData(ctx, w, http.StatusOK, video, "video updated")
}

// Delete handles DELETE /api/v1/videos/{videoId}. Stored assets are removed
// in the background after the row is gone.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	video, user, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logger.Error("delete video", "error", err, "videoId", video.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to delete video")
		return
	}

	if h.Cleanup != nil {
		for _, location := range []string{video.VideoURL, video.ThumbnailURL} {
			if err := h.Cleanup.Enqueue(ctx, location); err != nil {
				logger.Warn("enqueue asset for deletion", "error", err, "location", location)
			}
		}
	}

	respondData(ctx, w, http.StatusOK, nil, "video deleted")
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	video, user, ok := h.ownedVideo(w, r)
	if !ok {
		return
	}

	published, err := h.Videos.TogglePublished(ctx, video.ID, h.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logging.FromContext(ctx).Error("toggle publish", "error", err, "videoId", video.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to toggle publish state")
		return
	}

	respondData(ctx, w, http.StatusOK, map[string]bool{"isPublished": published}, "publish state toggled")
}

// ownedVideo loads the addressed video and enforces that the caller owns it.
func (h VideoHandler) ownedVideo(w http.ResponseWriter, r *http.Request) (models.Video, models.User, bool) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.Video{}, models.User{}, false
	}

	videoID := r.PathValue("videoId")
	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return models.Video{}, models.User{}, false
		}
		logging.FromContext(ctx).Error("load video", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load video")
		return models.Video{}, models.User{}, false
	}

	if video.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this video")
		return models.Video{}, models.User{}, false
	}

	return video, user, true
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

func emptyIfNil(videos []models.Video) []models.Video {
	if videos == nil {
		return []models.Video{}
	}
	return videos
}
