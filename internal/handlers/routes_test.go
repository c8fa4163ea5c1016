package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// denyAll stands in for the auth middleware and rejects every request, so a
// route that reaches its handler anyway is wired outside the guard.
func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func TestRoutesGuardReadEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{RequireAuth: denyAll})

	for _, target := range []string{
		"/api/v1/videos",
		"/api/v1/videos?userId=owner-1",
		"/api/v1/videos/v1",
		"/api/v1/comments/v1",
		"/api/v1/tweets/user/u1",
		"/api/v1/playlists/p1",
		"/api/v1/playlists/user/u1",
		"/api/v1/likes/videos",
		"/api/v1/users/current-user",
		"/api/v1/users/history",
		"/api/v1/users/c/ada",
		"/api/v1/subscriptions/c/u1",
		"/api/v1/subscriptions/u/u1",
		"/api/v1/dashboard/stats",
		"/api/v1/dashboard/videos",
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s: expected the auth guard to reject, got %d", target, rec.Code)
		}
	}
}

func TestRoutesKeepHealthAndAuthEntrypointsPublic(t *testing.T) {
	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{RequireAuth: denyAll})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /healthz to bypass the auth guard, got %d", rec.Code)
	}
}
