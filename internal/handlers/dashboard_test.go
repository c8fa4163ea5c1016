package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cliptube/backend/internal/models"
)

func TestChannelStatsReturnsCounters(t *testing.T) {
	stats := &fakeStatsStore{stats: models.ChannelStats{
		Subscribers:  3,
		Videos:       2,
		VideoLikes:   7,
		CommentLikes: 1,
		TweetLikes:   4,
	}}
	handler := DashboardHandler{Stats: stats, Videos: newFakeVideoStore()}

	rec := httptest.NewRecorder()
	handler.ChannelStats(rec, authedRequest(
		httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil), testUser("owner", "owner")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data models.ChannelStats `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode stats response: %v", err)
	}
	if envelope.Data != stats.stats {
		t.Fatalf("expected %+v, got %+v", stats.stats, envelope.Data)
	}
}

func TestChannelStatsRequiresAuth(t *testing.T) {
	handler := DashboardHandler{Stats: &fakeStatsStore{}, Videos: newFakeVideoStore()}

	rec := httptest.NewRecorder()
	handler.ChannelStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rec.Code)
	}
}

func TestChannelVideosIncludesUnpublished(t *testing.T) {
	videos := newFakeVideoStore()
	seedVideo(videos, "v1", "owner", true)
	seedVideo(videos, "v2", "owner", false)
	seedVideo(videos, "v3", "other", true)
	handler := DashboardHandler{Stats: &fakeStatsStore{}, Videos: videos}

	rec := httptest.NewRecorder()
	handler.ChannelVideos(rec, authedRequest(
		httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/videos", nil), testUser("owner", "owner")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data []models.Video `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode videos response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected the owner's two videos, got %d", len(envelope.Data))
	}
}
