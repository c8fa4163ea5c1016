package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cliptube/backend/internal/models"
)

type stubResolver struct {
	users map[string]models.User
}

func (s stubResolver) FindByID(ctx context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, errors.New("not found")
	}
	return user, nil
}

type stubVerifier struct {
	subjects map[string]string
}

func (s stubVerifier) VerifyAccess(token string) (string, error) {
	subject, ok := s.subjects[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return subject, nil
}

func authFixture() (func(http.Handler) http.Handler, models.User) {
	user := models.User{ID: "u1", Username: "ada"}
	resolver := stubResolver{users: map[string]models.User{"u1": user}}
	verifier := stubVerifier{subjects: map[string]string{"good-token": "u1", "orphan-token": "ghost"}}
	return RequireAuth(resolver, verifier), user
}

func echoUser(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Fatal("expected user on context")
		}
		w.Write([]byte(user.Username))
	})
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	requireAuth, _ := authFixture()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "good-token"})
	rec := httptest.NewRecorder()

	requireAuth(echoUser(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ada" {
		t.Fatalf("expected username echoed, got %q", rec.Body.String())
	}
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	requireAuth, _ := authFixture()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	requireAuth(echoUser(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAuthRejections(t *testing.T) {
	requireAuth, _ := authFixture()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	cases := map[string]func(*http.Request){
		"no token":      func(r *http.Request) {},
		"bad token":     func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
		"unknown user":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer orphan-token") },
		"wrong scheme":  func(r *http.Request) { r.Header.Set("Authorization", "Basic good-token") },
		"empty cookie":  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "accessToken", Value: ""}) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			mutate(req)
			rec := httptest.NewRecorder()

			requireAuth(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"success":false`) {
				t.Fatalf("expected envelope with success=false, got %s", rec.Body.String())
			}
		})
	}
}

func TestUserFromContextMissing(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Fatal("expected no user on empty context")
	}
}
