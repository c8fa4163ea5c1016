package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTweetHandler(tweets *fakeTweetStore) TweetHandler {
	return TweetHandler{Tweets: tweets, NowFunc: fixedNow}
}

func TestCreateTweet(t *testing.T) {
	tweets := newFakeTweetStore()
	handler := newTweetHandler(tweets)

	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(jsonRequest(t, http.MethodPost, "/api/v1/tweets",
		map[string]string{"content": "hello world"}), testUser("u1", "ada")))

	if rec.Code != http.StatusCreated {
		t.Fatalf("create tweet failed: %d: %s", rec.Code, rec.Body.String())
	}
	if len(tweets.tweets) != 1 {
		t.Fatalf("expected one stored tweet, got %d", len(tweets.tweets))
	}
}

func TestCreateTweetRequiresContent(t *testing.T) {
	handler := newTweetHandler(newFakeTweetStore())

	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(jsonRequest(t, http.MethodPost, "/api/v1/tweets",
		map[string]string{"content": ""}), testUser("u1", "ada")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", rec.Code)
	}
}

func TestUpdateTweetRequiresOwnership(t *testing.T) {
	tweets := newFakeTweetStore()
	handler := newTweetHandler(tweets)

	create := httptest.NewRecorder()
	handler.Create(create, authedRequest(jsonRequest(t, http.MethodPost, "/api/v1/tweets",
		map[string]string{"content": "mine"}), testUser("author", "author")))

	var tweetID string
	for id := range tweets.tweets {
		tweetID = id
	}

	update := jsonRequest(t, http.MethodPatch, "/api/v1/tweets/"+tweetID, map[string]string{"content": "stolen"})
	update.SetPathValue("tweetId", tweetID)
	rec := httptest.NewRecorder()
	handler.Update(rec, authedRequest(update, testUser("intruder", "intruder")))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}
}

func TestDeleteTweet(t *testing.T) {
	tweets := newFakeTweetStore()
	handler := newTweetHandler(tweets)
	author := testUser("author", "author")

	create := httptest.NewRecorder()
	handler.Create(create, authedRequest(jsonRequest(t, http.MethodPost, "/api/v1/tweets",
		map[string]string{"content": "fleeting"}), author))

	var tweetID string
	for id := range tweets.tweets {
		tweetID = id
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/tweets/"+tweetID, nil)
	del.SetPathValue("tweetId", tweetID)
	rec := httptest.NewRecorder()
	handler.Delete(rec, authedRequest(del, author))

	if rec.Code != http.StatusOK {
		t.Fatalf("delete tweet failed: %d", rec.Code)
	}
	if len(tweets.tweets) != 0 {
		t.Fatal("expected tweet removed")
	}
}

func TestListTweetsForUserRejectsBadPagination(t *testing.T) {
	handler := newTweetHandler(newFakeTweetStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/u1?limit=0", nil)
	req.SetPathValue("userId", "u1")
	rec := httptest.NewRecorder()
	handler.ListForUser(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", rec.Code)
	}
}
