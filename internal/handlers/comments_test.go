package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newCommentHandler(comments *fakeCommentStore, videos *fakeVideoStore) CommentHandler {
	return CommentHandler{
		Comments: comments,
		Videos:   videos,
		NowFunc:  fixedNow,
	}
}

func TestCreateCommentOnMissingVideo(t *testing.T) {
	handler := newCommentHandler(newFakeCommentStore(), newFakeVideoStore())

	req := jsonRequest(t, http.MethodPost, "/api/v1/comments/ghost", map[string]string{"content": "nice"})
	req.SetPathValue("videoId", "ghost")
	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(req, testUser("u1", "ada")))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing video, got %d", rec.Code)
	}
}

func TestCreateCommentRequiresContent(t *testing.T) {
	videos := newFakeVideoStore()
	seedVideo(videos, "v1", "owner", true)
	handler := newCommentHandler(newFakeCommentStore(), videos)

	req := jsonRequest(t, http.MethodPost, "/api/v1/comments/v1", map[string]string{"content": "   "})
	req.SetPathValue("videoId", "v1")
	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(req, testUser("u1", "ada")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank content, got %d", rec.Code)
	}
}

func TestCreateAndListComments(t *testing.T) {
	videos := newFakeVideoStore()
	seedVideo(videos, "v1", "owner", true)
	comments := newFakeCommentStore()
	handler := newCommentHandler(comments, videos)

	req := jsonRequest(t, http.MethodPost, "/api/v1/comments/v1", map[string]string{"content": "great clip"})
	req.SetPathValue("videoId", "v1")
	rec := httptest.NewRecorder()
	handler.Create(rec, authedRequest(req, testUser("u1", "ada")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create comment failed: %d: %s", rec.Code, rec.Body.String())
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/comments/v1", nil)
	listReq.SetPathValue("videoId", "v1")
	listRec := httptest.NewRecorder()
	handler.ListForVideo(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list comments failed: %d", listRec.Code)
	}

	envelope := decodeEnvelope(t, listRec)
	items, ok := envelope.Data.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one comment in the list, got %v", envelope.Data)
	}
}

func TestUpdateCommentRequiresOwnership(t *testing.T) {
	videos := newFakeVideoStore()
	seedVideo(videos, "v1", "owner", true)
	comments := newFakeCommentStore()
	handler := newCommentHandler(comments, videos)

	create := jsonRequest(t, http.MethodPost, "/api/v1/comments/v1", map[string]string{"content": "first"})
	create.SetPathValue("videoId", "v1")
	createRec := httptest.NewRecorder()
	handler.Create(createRec, authedRequest(create, testUser("author", "author")))
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create comment failed: %d", createRec.Code)
	}

	var commentID string
	for id := range comments.comments {
		commentID = id
	}

	update := jsonRequest(t, http.MethodPatch, "/api/v1/comments/c/"+commentID, map[string]string{"content": "edited"})
	update.SetPathValue("commentId", commentID)
	updateRec := httptest.NewRecorder()
	handler.Update(updateRec, authedRequest(update, testUser("intruder", "intruder")))

	if updateRec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner edit, got %d", updateRec.Code)
	}
	if comments.comments[commentID].Content != "first" {
		t.Fatal("comment content must not change for non-owner")
	}
}

func TestDeleteComment(t *testing.T) {
	videos := newFakeVideoStore()
	seedVideo(videos, "v1", "owner", true)
	comments := newFakeCommentStore()
	handler := newCommentHandler(comments, videos)

	create := jsonRequest(t, http.MethodPost, "/api/v1/comments/v1", map[string]string{"content": "bye"})
	create.SetPathValue("videoId", "v1")
	createRec := httptest.NewRecorder()
	author := testUser("author", "author")
	handler.Create(createRec, authedRequest(create, author))

	var commentID string
	for id := range comments.comments {
		commentID = id
	}

	del := httptest.NewRequest(http.MethodDelete, "/api/v1/comments/c/"+commentID, nil)
	del.SetPathValue("commentId", commentID)
	delRec := httptest.NewRecorder()
	handler.Delete(delRec, authedRequest(del, author))

	if delRec.Code != http.StatusOK {
		t.Fatalf("delete comment failed: %d", delRec.Code)
	}
	if len(comments.comments) != 0 {
		t.Fatal("expected comment removed")
	}
}
