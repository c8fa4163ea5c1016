package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cliptube/backend/internal/logging"
	"github.com/cliptube/backend/internal/media"
	"github.com/cliptube/backend/internal/middleware"
	"github.com/cliptube/backend/internal/models"
	"github.com/cliptube/backend/internal/repositories"
)

// UserHandler implements account, session, and channel-profile endpoints.
type UserHandler struct {
	Users   UserStore
	Videos  VideoStore
	Tokens  TokenIssuer
	Media   MediaUploader
	Cleanup AssetCleaner
	Limiter RateLimiter

	CookieSecure bool
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	MaxJSONBytes int64
	UploadDir    string
	MaxFileBytes int64
	NowFunc      func() time.Time
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Register handles POST /api/v1/users/register. The avatar image is
// required and the cover image optional; any asset stored before a later
// failure is deleted again.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "register") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many requests")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*h.MaxFileBytes+h.maxJSONBytes())
	if err := r.ParseMultipartForm(h.MaxFileBytes); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("fullName"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	password := r.FormValue("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		respondError(ctx, w, http.StatusBadRequest, "fullName, email, username, and password are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(password) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	avatarPath, err := spoolUpload(r, "avatar", h.UploadDir, h.MaxFileBytes, "image/")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	defer discardSpooled(ctx, avatarPath)

	coverPath := ""
	if hasFormFile(r, "coverImage") {
		coverPath, err = spoolUpload(r, "coverImage", h.UploadDir, h.MaxFileBytes, "image/")
		if err != nil {
			respondError(ctx, w, http.StatusBadRequest, err.Error())
			return
		}
		defer discardSpooled(ctx, coverPath)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	rollback := media.NewRollback(h.Media, logger)
	defer rollback.Run(ctx)

	avatarAsset, err := h.Media.Upload(ctx, avatarPath, "avatars")
	if err != nil {
		logger.Error("upload avatar", "error", err, "username", username)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store avatar")
		return
	}
	rollback.Track(avatarAsset.URL)

	coverURL := ""
	if coverPath != "" {
		coverAsset, err := h.Media.Upload(ctx, coverPath, "covers")
		if err != nil {
			logger.Error("upload cover image", "error", err, "username", username)
			respondError(ctx, w, http.StatusInternalServerError, "failed to store cover image")
			return
		}
		rollback.Track(coverAsset.URL)
		coverURL = coverAsset.URL
	}

	now := h.now()
	user := models.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		Password:      string(hashed),
		AvatarURL:     avatarAsset.URL,
		CoverImageURL: coverURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "username or email already in use")
			return
		}
		logger.Error("create user", "error", err, "username", username)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create account")
		return
	}

	rollback.Discard()
	user.Password = ""
	respondData(ctx, w, http.StatusCreated, user, "account created")
}

// Login handles POST /api/v1/users/login.
func (h UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondError(ctx, w, http.StatusTooManyRequests, "too many requests")
		return
	}

	var req loginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := strings.TrimSpace(strings.ToLower(req.Email))
	if identifier == "" {
		identifier = strings.TrimSpace(strings.ToLower(req.Username))
	}
	if identifier == "" || req.Password == "" {
		respondError(ctx, w, http.StatusBadRequest, "email or username and password are required")
		return
	}

	user, err := h.Users.FindByLogin(ctx, identifier)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logger.Error("login lookup", "error", err)
			respondError(ctx, w, http.StatusInternalServerError, "unable to sign in")
			return
		}
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tokens, err := h.Tokens.IssuePair(user.ID)
	if err != nil {
		logger.Error("issue tokens", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create session")
		return
	}

	if err := h.Users.SetRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		logger.Error("store refresh token", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to create session")
		return
	}

	user.Password = ""
	user.RefreshToken = ""
	setAuthCookies(w, tokens, h.CookieSecure, h.AccessTTL, h.RefreshTTL)
	respondData(ctx, w, http.StatusOK, loginResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "signed in")
}

// Refresh handles POST /api/v1/users/refresh-token. The presented token must
// match the stored single-slot value; a stale token ends the session.
func (h UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	current := h.refreshTokenFromRequest(r)
	if current == "" {
		respondError(ctx, w, http.StatusUnauthorized, "refresh token is required")
		return
	}

	userID, err := h.Tokens.VerifyRefresh(current)
	if err != nil {
		respondError(ctx, w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	tokens, err := h.Tokens.IssuePair(userID)
	if err != nil {
		logger.Error("issue tokens", "error", err, "userId", userID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to refresh session")
		return
	}

	if err := h.Users.RotateRefreshToken(ctx, userID, current, tokens.RefreshToken); err != nil {
		if errors.Is(err, repositories.ErrTokenMismatch) || errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusUnauthorized, "refresh token is expired or already used")
			return
		}
		logger.Error("rotate refresh token", "error", err, "userId", userID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to refresh session")
		return
	}

	setAuthCookies(w, tokens, h.CookieSecure, h.AccessTTL, h.RefreshTTL)
	respondData(ctx, w, http.StatusOK, tokens, "session refreshed")
}

// Logout handles POST /api/v1/users/logout.
func (h UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.Users.ClearRefreshToken(ctx, user.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logging.FromContext(ctx).Error("clear refresh token", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to sign out")
		return
	}

	clearAuthCookies(w, h.CookieSecure)
	respondData(ctx, w, http.StatusOK, nil, "signed out")
}

// CurrentUser handles GET /api/v1/users/current-user.
func (h UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	respondData(ctx, w, http.StatusOK, user, "current user")
}

// ChangePassword handles POST /api/v1/users/change-password.
func (h UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req changePasswordRequest
	if err := h.decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		respondError(ctx, w, http.StatusBadRequest, "oldPassword and newPassword are required")
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	// The context user carries no hash, so reload the credential row.
	full, err := h.Users.FindByLogin(ctx, user.Username)
	if err != nil {
		logger.Error("load credentials", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to change password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(full.Password), []byte(req.OldPassword)); err != nil {
		respondError(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "unable to change password")
		return
	}

	if err := h.Users.UpdatePassword(ctx, user.ID, string(hashed), h.now()); err != nil {
		logger.Error("update password", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to change password")
		return
	}

	respondData(ctx, w, http.StatusOK, nil, "password changed")
}

// UpdateAccount handles PATCH /api/v1/users/update-account.
func (h UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateAccountRequest
	if err := h.decodeJSON(r, &req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.FullName == "" || req.Email == "" {
		respondError(ctx, w, http.StatusBadRequest, "fullName and email are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid email address")
		return
	}

	updated, err := h.Users.UpdateProfile(ctx, user.ID, req.FullName, req.Email, h.now())
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "email already in use")
			return
		}
		logger.Error("update profile", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to update account")
		return
	}

	respondData(ctx, w, http.StatusOK, updated, "account updated")
}

// UpdateAvatar handles PATCH /api/v1/users/avatar.
func (h UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", "avatars", h.Users.UpdateAvatar)
}

// UpdateCoverImage handles PATCH /api/v1/users/cover-image.
func (h UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", "covers", h.Users.UpdateCoverImage)
}

func (h UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field, keyPrefix string,
	swap func(ctx context.Context, id, url string, now time.Time) (string, error)) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxFileBytes+h.maxJSONBytes())
	if err := r.ParseMultipartForm(h.MaxFileBytes); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	localPath, err := spoolUpload(r, field, h.UploadDir, h.MaxFileBytes, "image/")
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	defer discardSpooled(ctx, localPath)

	asset, err := h.Media.Upload(ctx, localPath, keyPrefix)
	if err != nil {
		logger.Error("upload image", "error", err, "field", field, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to store image")
		return
	}

	previous, err := swap(ctx, user.ID, asset.URL, h.now())
	if err != nil {
		if delErr := h.Media.Delete(ctx, asset.URL); delErr != nil {
			logger.Warn("rollback stored image", "error", delErr, "location", asset.URL)
		}
		logger.Error("swap image column", "error", err, "field", field, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to update image")
		return
	}

	if previous != "" && h.Cleanup != nil {
		if err := h.Cleanup.Enqueue(ctx, previous); err != nil {
			logger.Warn("enqueue replaced image for deletion", "error", err, "location", previous)
		}
	}

	respondData(ctx, w, http.StatusOK, map[string]string{field: asset.URL}, "image updated")
}

// ChannelProfile handles GET /api/v1/users/c/{username}.
func (h UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewer, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	username := strings.TrimSpace(strings.ToLower(r.PathValue("username")))
	if username == "" {
		respondError(ctx, w, http.StatusBadRequest, "username is required")
		return
	}

	profile, err := h.Users.ChannelProfile(ctx, username, viewer.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "channel not found")
			return
		}
		logging.FromContext(ctx).Error("load channel profile", "error", err, "username", username)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load channel")
		return
	}

	respondData(ctx, w, http.StatusOK, profile, "channel profile")
}

// WatchHistory handles GET /api/v1/users/history.
func (h UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "authentication required")
		return
	}

	offset, limit, err := pageParams(r)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.Videos.WatchHistory(ctx, user.ID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("load watch history", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "unable to load watch history")
		return
	}

	if entries == nil {
		entries = []models.WatchEntry{}
	}
	respondData(ctx, w, http.StatusOK, entries, "watch history")
}

func (h UserHandler) decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, h.maxJSONBytes())
	return json.NewDecoder(body).Decode(dst)
}

func (h UserHandler) maxJSONBytes() int64 {
	if h.MaxJSONBytes > 0 {
		return h.MaxJSONBytes
	}
	return 16 << 10
}

func (h UserHandler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req refreshRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return ""
	}
	return strings.TrimSpace(req.RefreshToken)
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
