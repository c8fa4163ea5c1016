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

// TweetHandler implements the short-post endpoints.
type TweetHandler struct {
	Tweets       TweetStore
	MaxJSONBytes int64
	NowFunc      func() time.Time
}

type tweetRequest struct {
	Content string `json:"content"`
}

// Create handles POST /api/v1/tweets.
func (h TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	content, ok := h.readContent(w, r)
	if !ok {
		return
	}

	now := h.now()
	tweet := models.Tweet{
		ID:        uuid.NewString(),
		OwnerID:   user.ID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
		Owner:     user.Summary(),
	}

	if err := h.Tweets.Create(ctx, tweet); err != nil {
		logging.FromContext(ctx).Error("create tweet", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to create tweet")
		return
	}

	respondData(ctx, w, http.StatusCreated, tweet, "tweet created")
}

// ListForUser handles GET /api/v1/tweets/user/{userId}.
func (h TweetHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset, limit, err := pageParams(r)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	userID := r.PathValue("userId")
	tweets, err := h.Tweets.ListForUser(ctx, userID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("list tweets", "error", err, "userId", userID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to list tweets")
		return
	}

	if tweets == nil {
		tweets = []models.Tweet{}
	}
	respondData(ctx, w, http.StatusOK, tweets, "tweets")
}

// Update handles PATCH /api/v1/tweets/{tweetId}.
func (h TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, user, ok := h.ownedTweet(w, r)
	if !ok {
		return
	}

	content, ok := h.readContent(w, r)
	if !ok {
		return
	}

	updated, err := h.Tweets.UpdateContent(ctx, tweet.ID, content, h.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "tweet not found")
			return
		}
		logging.FromContext(ctx).Error("update tweet", "error", err, "tweetId", tweet.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to update tweet")
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "tweet updated")
}

// Delete handles DELETE /api/v1/tweets/{tweetId}.
func (h TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tweet, user, ok := h.ownedTweet(w, r)
	if !ok {
		return
	}

	if err := h.Tweets.Delete(ctx, tweet.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "tweet not found")
			return
		}
		logging.FromContext(ctx).Error("delete tweet", "error", err, "tweetId", tweet.ID, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to delete tweet")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "tweet deleted")
}

func (h TweetHandler) ownedTweet(w http.ResponseWriter, r *http.Request) (models.Tweet, models.User, bool) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return models.Tweet{}, models.User{}, false
	}

	tweetID := r.PathValue("tweetId")
	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "tweet not found")
			return models.Tweet{}, models.User{}, false
		}
		logging.FromContext(ctx).Error("load tweet", "error", err, "tweetId", tweetID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load tweet")
		return models.Tweet{}, models.User{}, false
	}

	if tweet.OwnerID != user.ID {
		respondError(ctx, w, http.StatusForbidden, "only the owner may modify this tweet")
		return models.Tweet{}, models.User{}, false
	}

	return tweet, user, true
}

func (h TweetHandler) readContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	maxBytes := h.MaxJSONBytes
	if maxBytes <= 0 {
		maxBytes = 16 << 10
	}

	var req tweetRequest
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

func (h TweetHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
