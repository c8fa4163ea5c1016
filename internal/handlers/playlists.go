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

// PlaylistHandler implements playlist endpoints.
type PlaylistHandler struct {
	Playlists    PlaylistStore
	Videos       VideoStore
	MaxJSONBytes int64
	NowFunc      func() time.Time
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/v1/playlists.
func (h PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	now := h.now()
	playlist := models.Playlist{
		ID:          uuid.NewString(),
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Playlists.Create(ctx, playlist); err != nil {
		logging.FromContext(ctx).Error("create playlist", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to create playlist")
		return
	}

	respondData(ctx, w, http.StatusCreated, playlist, "playlist created")
}

// Get handles GET /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlistID := r.PathValue("playlistId")
	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist not found")
			return
		}
		logging.FromContext(ctx).Error("load playlist", "error", err, "playlistId", playlistID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, playlist, "playlist")
}

// ListForUser handles GET /api/v1/playlists/user/{userId}.
func (h PlaylistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := r.PathValue("userId")
	playlists, err := h.Playlists.ListForOwner(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("list playlists", "error", err, "userId", userID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to list playlists")
		return
	}

	if playlists == nil {
		playlists = []models.Playlist{}
	}
	respondData(ctx, w, http.StatusOK, playlists, "playlists")
}

// AddVideo handles PATCH /api/v1/playlists/add/{videoId}/{playlistId}.
func (h PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, user, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	videoID := r.PathValue("videoId")
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video not found")
			return
		}
		logging.FromContext(ctx).Error("load video", "error", err, "videoId", videoID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to add video to playlist")
		return
	}

	if err := h.Playlists.AddVideo(ctx, playlist.ID, videoID, h.now()); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "video is already in the playlist")
			return
		}
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist or video not found")
			return
		}
		logging.FromContext(ctx).Error("add playlist video", "error", err,
			"playlistId", playlist.ID, "videoId", videoID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to add video to playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "video added to playlist")
}

// RemoveVideo handles PATCH /api/v1/playlists/remove/{videoId}/{playlistId}.
func (h PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, user, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	videoID := r.PathValue("videoId")
	if err := h.Playlists.RemoveVideo(ctx, playlist.ID, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video is not in the playlist")
			return
		}
		logging.FromContext(ctx).Error("remove playlist video", "error", err,
			"playlistId", playlist.ID, "videoId", videoID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to remove video from playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "video removed from playlist")
}

// Update handles PATCH /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, user, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.Playlists.Update(ctx, playlist.ID, req.Name, req.Description, h.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist not found")
			return
		}
		logging.FromContext(ctx).Error("update playlist", "error", err, "playlistId", playlist.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to update playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "playlist updated")
}

// Delete handles DELETE /api/v1/playlists/{playlistId}.
func (h PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	playlist, user, ok := h.ownedPlaylist(w, r)
	if !ok {
		return
	}

	if err := h.Playlists.Delete(ctx, playlist.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist not found")
			return
		}
		logging.FromContext(ctx).Error("delete playlist", "error", err, "playlistId", playlist.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to delete playlist")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "playlist deleted")
}

func (h PlaylistHandler) ownedPlaylist(w http.ResponseWriter, r *http.Request) (models.Playlist, models.User, bool) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.Playlist{}, models.User{}, false
	}

	playlistID := r.PathValue("playlistId")
	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "playlist not found")
			return models.Playlist{}, models.User{}, false
		}
		logging.FromContext(ctx).Error("load playlist", "error", err, "playlistId", playlistID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load playlist")
		return models.Playlist{}, models.User{}, false
	}

	if playlist.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this playlist")
		return models.Playlist{}, models.User{}, false
	}

	return playlist, user, true
}

func (h PlaylistHandler) readRequest(w http.ResponseWriter, r *http.Request) (playlistRequest, bool) {
	ctx := r.Context()

	maxBytes := h.MaxJSONBytes
	if maxBytes <= 0 {
		maxBytes = 16 << 10
	}

	var req playlistRequest
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBytes)).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return playlistRequest{}, false
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		respondError(ctx, w, http.StatusBadRequest, "name is required")
		return playlistRequest{}, false
	}

	return req, true
}

func (h PlaylistHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
