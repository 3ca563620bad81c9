package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"blogapi/app/models"
	"blogapi/app/repositories"
	"blogapi/app/schema"
	"blogapi/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "s3cret"

type testServer struct {
	router *mux.Router
	store  *repositories.Repository
	user   *models.User
	now    time.Time
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := repositories.NewInMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ts := &testServer{
		store: store,
		now:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return ts.now }

	users := services.NewUserService(store.Users(), bcrypt.MinCost, clock)
	ts.user, err = users.CreateUser(context.Background(), "alice", testPassword)
	require.NoError(t, err)

	ts.router = SetupRoutes(Dependencies{
		Store:      store,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:      clock,
		BcryptCost: bcrypt.MinCost,
	})
	return ts
}

func (ts *testServer) request(method, path, body string, auth bool) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.SetBasicAuth(ts.user.Username, testPassword)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (ts *testServer) createPost(t *testing.T, title string) schema.PostV1 {
	t.Helper()
	w := ts.request(http.MethodPost, "/api/posts", `{"title":"`+title+`","text":"body"}`, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post schema.PostV1
	decodeBody(t, w, &post)
	return post
}

func (ts *testServer) addComment(t *testing.T, postID int) schema.CommentV1 {
	t.Helper()
	w := ts.request(http.MethodPost, "/api/posts/"+strconv.Itoa(postID)+"/comments", `{"author":"bob","text":"nice"}`, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var comment schema.CommentV1
	decodeBody(t, w, &comment)
	return comment
}

func TestCreatePost(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.request(http.MethodPost, "/api/posts", `{"title":"T","text":"B"}`, true)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var raw map[string]interface{}
	decodeBody(t, w, &raw)
	assert.Equal(t, "T", raw["title"])
	assert.EqualValues(t, ts.user.ID, raw["author"])
	assert.Contains(t, raw, "published_date")
	assert.Nil(t, raw["published_date"])
	for _, key := range []string{"id", "author", "title", "text", "created_date", "published_date"} {
		assert.Contains(t, raw, key)
	}
}

func TestCreatePostMissingText(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.request(http.MethodPost, "/api/posts", `{"title":"T"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body schema.ErrorV1
	decodeBody(t, w, &body)
	assert.Equal(t, "required", body.Fields["text"])

	var drafts []schema.PostV1
	decodeBody(t, ts.request(http.MethodGet, "/api/posts/drafts", "", true), &drafts)
	assert.Empty(t, drafts)
}

func TestAuthRequired(t *testing.T) {
	ts := setupTestServer(t)
	ts.createPost(t, "p")
	ts.addComment(t, 1)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPost, "/api/posts", `{"title":"T","text":"B"}`},
		{http.MethodPost, "/api/posts/1/edit", `{"title":"T","text":"B"}`},
		{http.MethodGet, "/api/posts/drafts", ""},
		{http.MethodPost, "/api/posts/1/publish", ""},
		{http.MethodPost, "/api/comments/1/approve", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := ts.request(tt.method, tt.path, tt.body, false)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), `realm="blogapi"`)
		})
	}

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts/drafts", nil)
		req.SetBasicAuth("alice", "wrong")
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts/drafts", nil)
		req.SetBasicAuth("mallory", testPassword)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPublishFlow(t *testing.T) {
	ts := setupTestServer(t)
	first := ts.createPost(t, "first")
	ts.now = ts.now.Add(time.Minute)
	second := ts.createPost(t, "second")
	ts.now = ts.now.Add(time.Minute)
	third := ts.createPost(t, "third")

	var public []schema.PostV1
	decodeBody(t, ts.request(http.MethodGet, "/api/posts", "", false), &public)
	assert.Empty(t, public, "drafts must not be listed")

	var drafts []schema.PostV1
	decodeBody(t, ts.request(http.MethodGet, "/api/posts/drafts", "", true), &drafts)
	require.Len(t, drafts, 3)
	assert.Equal(t, []int{first.ID, second.ID, third.ID}, []int{drafts[0].ID, drafts[1].ID, drafts[2].ID})

	for _, id := range []int{third.ID, first.ID} {
		ts.now = ts.now.Add(time.Minute)
		w := ts.request(http.MethodPost, "/api/posts/"+strconv.Itoa(id)+"/publish", "", true)
		require.Equal(t, http.StatusOK, w.Code)

		var post schema.PostV1
		decodeBody(t, w, &post)
		require.NotNil(t, post.PublishedDate)
		assert.False(t, post.PublishedDate.Before(post.CreatedDate))
		assert.False(t, post.PublishedDate.After(ts.now))
	}

	decodeBody(t, ts.request(http.MethodGet, "/api/posts", "", false), &public)
	require.Len(t, public, 2)
	assert.Equal(t, third.ID, public[0].ID)
	assert.Equal(t, first.ID, public[1].ID)

	decodeBody(t, ts.request(http.MethodGet, "/api/posts/drafts", "", true), &drafts)
	require.Len(t, drafts, 1)
	assert.Equal(t, second.ID, drafts[0].ID)
}

func TestEditPost(t *testing.T) {
	ts := setupTestServer(t)
	post := ts.createPost(t, "original")

	w := ts.request(http.MethodPost, "/api/posts/"+strconv.Itoa(post.ID)+"/edit", `{"title":"changed","text":"new"}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	var edited schema.PostV1
	decodeBody(t, w, &edited)
	assert.Equal(t, "changed", edited.Title)
	assert.Equal(t, ts.user.ID, edited.Author)

	assert.Equal(t, http.StatusBadRequest,
		ts.request(http.MethodPost, "/api/posts/"+strconv.Itoa(post.ID)+"/edit", `{"text":"x"}`, true).Code)
	assert.Equal(t, http.StatusNotFound,
		ts.request(http.MethodPost, "/api/posts/99/edit", `{"title":"a","text":"b"}`, true).Code)
}

func TestComments(t *testing.T) {
	ts := setupTestServer(t)
	post := ts.createPost(t, "host")
	other := ts.createPost(t, "other")

	// Comment ids 1..5 alternate between posts; post gets 3 and 5.
	ts.addComment(t, other.ID)
	ts.addComment(t, other.ID)
	c3 := ts.addComment(t, post.ID)
	ts.addComment(t, other.ID)
	c5 := ts.addComment(t, post.ID)
	assert.False(t, c3.ApprovedComment)

	var comments []schema.CommentV1
	decodeBody(t, ts.request(http.MethodGet, "/api/posts/"+strconv.Itoa(post.ID)+"/comments", "", false), &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, []int{3, 5}, []int{comments[0].ID, comments[1].ID})
	assert.Equal(t, c5.ID, comments[1].ID)

	t.Run("approve twice", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			w := ts.request(http.MethodPost, "/api/comments/3/approve", "", true)
			require.Equal(t, http.StatusOK, w.Code)
			var c schema.CommentV1
			decodeBody(t, w, &c)
			assert.True(t, c.ApprovedComment)
		}
	})

	t.Run("approve accepts any method", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/api/comments/5/approve", "", true).Code)
	})

	t.Run("comment on missing post", func(t *testing.T) {
		w := ts.request(http.MethodPost, "/api/posts/99/comments", `{"author":"a","text":"b"}`, false)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, http.StatusNotFound, ts.request(http.MethodGet, "/api/comments/6/approve", "", true).Code)
	})

	t.Run("edit comment", func(t *testing.T) {
		w := ts.request(http.MethodPost, "/api/comments/3/edit", `{"author":"carol","text":"fixed"}`, false)
		require.Equal(t, http.StatusOK, w.Code)
		var c schema.CommentV1
		decodeBody(t, w, &c)
		assert.Equal(t, "carol", c.Author)
		assert.Equal(t, post.ID, c.Post)

		assert.Equal(t, http.StatusBadRequest,
			ts.request(http.MethodPost, "/api/comments/3/edit", `{"text":"x"}`, false).Code)
	})

	t.Run("remove comment", func(t *testing.T) {
		w := ts.request(http.MethodDelete, "/api/comments/3", "", false)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, http.StatusNotFound, ts.request(http.MethodDelete, "/api/comments/3", "", false).Code)
	})
}

func TestRemovePostCascades(t *testing.T) {
	ts := setupTestServer(t)
	post := ts.createPost(t, "doomed")
	comment := ts.addComment(t, post.ID)

	w := ts.request(http.MethodDelete, "/api/posts/"+strconv.Itoa(post.ID), "", false)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	assert.Equal(t, http.StatusNotFound, ts.request(http.MethodGet, "/api/posts/"+strconv.Itoa(post.ID), "", false).Code)
	assert.Equal(t, http.StatusNotFound, ts.request(http.MethodGet, "/api/posts/"+strconv.Itoa(post.ID)+"/comments", "", false).Code)
	assert.Equal(t, http.StatusNotFound, ts.request(http.MethodPost, "/api/comments/"+strconv.Itoa(comment.ID)+"/edit", `{"author":"a","text":"b"}`, false).Code)

	_, err := ts.store.Comments().GetByID(context.Background(), comment.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRoutingErrors(t *testing.T) {
	ts := setupTestServer(t)
	ts.createPost(t, "p")

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound},
		{"missing post", http.MethodGet, "/api/posts/42", http.StatusNotFound},
		{"non-numeric id", http.MethodGet, "/api/posts/abc", http.StatusNotFound},
		{"wrong verb on detail", http.MethodPut, "/api/posts/1", http.StatusMethodNotAllowed},
		{"wrong verb on publish", http.MethodGet, "/api/posts/1/publish", http.StatusMethodNotAllowed},
		{"wrong verb on comment edit", http.MethodGet, "/api/comments/1/edit", http.StatusMethodNotAllowed},
		{"wrong verb on post collection", http.MethodPatch, "/api/posts", http.StatusMethodNotAllowed},
		{"wrong verb on drafts", http.MethodPost, "/api/posts/drafts", http.StatusMethodNotAllowed},
		{"wrong verb on comment list", http.MethodDelete, "/api/posts/1/comments", http.StatusMethodNotAllowed},
		{"wrong verb on comment", http.MethodGet, "/api/comments/1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.request(tt.method, tt.path, "", true)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body schema.ErrorV1
			decodeBody(t, w, &body)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	ts := setupTestServer(t)
	w := ts.request(http.MethodPost, "/api/posts", `{"title": "T",`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.request(http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	require.NoError(t, ts.store.Close())
	w = ts.request(http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNewServer(t *testing.T) {
	srv := NewServer(":0", http.NotFoundHandler())
	assert.Equal(t, ":0", srv.Addr)
	assert.NotNil(t, srv.Handler)
	assert.NotZero(t, srv.ReadHeaderTimeout)
}
