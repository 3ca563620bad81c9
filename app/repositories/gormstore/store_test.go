package gormstore

import (
	"context"
	"testing"
	"time"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(DriverSQLite, ":memory:", Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever", Options{})
	assert.ErrorContains(t, err, "unsupported gorm driver")
}

func TestStore_Ping(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestStore_Posts(t *testing.T) {
	store := setupTestStore(t)
	posts := store.Posts()
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	post := &models.Post{AuthorID: 1, Title: "Hello", Text: "World", CreatedDate: created}
	require.NoError(t, posts.Create(ctx, post))
	assert.Greater(t, post.ID, 0)

	t.Run("get", func(t *testing.T) {
		got, err := posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hello", got.Title)
		assert.True(t, created.Equal(got.CreatedDate))
		assert.Nil(t, got.PublishedDate)

		_, err = posts.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		published := created.Add(time.Hour)
		post.Title = "Hello again"
		post.PublishedDate = &published
		require.NoError(t, posts.Update(ctx, post))

		got, err := posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hello again", got.Title)
		require.NotNil(t, got.PublishedDate)
		assert.True(t, published.Equal(*got.PublishedDate))

		assert.ErrorIs(t, posts.Update(ctx, &models.Post{ID: 9999, AuthorID: 1}), repositories.ErrNotFound)
	})

	t.Run("delete cascades", func(t *testing.T) {
		comment := &models.Comment{PostID: post.ID, Author: "a", Text: "b", CreatedDate: created}
		require.NoError(t, store.Comments().Create(ctx, comment))

		require.NoError(t, posts.Delete(ctx, post.ID))
		_, err := store.Comments().GetByID(ctx, comment.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.ErrorIs(t, posts.Delete(ctx, post.ID), repositories.ErrNotFound)
	})
}

func TestStore_PostList(t *testing.T) {
	store := setupTestStore(t)
	posts := store.Posts()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	create := func(created time.Time, published *time.Time) int {
		post := &models.Post{AuthorID: 1, Title: "p", CreatedDate: created, PublishedDate: published}
		require.NoError(t, posts.Create(ctx, post))
		return post.ID
	}
	at := func(d time.Duration) *time.Time {
		ts := base.Add(d)
		return &ts
	}

	late := create(base, at(3*time.Hour))
	early := create(base, at(time.Hour))
	create(base, at(72*time.Hour))
	newerDraft := create(base.Add(2*time.Hour), nil)
	olderDraft := create(base.Add(time.Hour), nil)

	published, err := posts.List(ctx, repositories.PostFilter{Status: repositories.Published, Now: base.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, []int{early, late}, ids(published))

	drafts, err := posts.List(ctx, repositories.PostFilter{Status: repositories.Draft})
	require.NoError(t, err)
	assert.Equal(t, []int{olderDraft, newerDraft}, ids(drafts))

	all, err := posts.List(ctx, repositories.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStore_Comments(t *testing.T) {
	store := setupTestStore(t)
	comments := store.Comments()
	ctx := context.Background()

	post := &models.Post{AuthorID: 1, Title: "p", CreatedDate: time.Now()}
	require.NoError(t, store.Posts().Create(ctx, post))

	t.Run("missing post", func(t *testing.T) {
		err := comments.Create(ctx, &models.Comment{PostID: 9999, Author: "a", CreatedDate: time.Now()})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	first := &models.Comment{PostID: post.ID, Author: "first", Text: "1", CreatedDate: time.Now()}
	second := &models.Comment{PostID: post.ID, Author: "second", Text: "2", CreatedDate: time.Now()}
	require.NoError(t, comments.Create(ctx, first))
	require.NoError(t, comments.Create(ctx, second))

	t.Run("approve via update", func(t *testing.T) {
		first.Approve()
		first.Text = "edited"
		require.NoError(t, comments.Update(ctx, first))

		got, err := comments.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, got.ApprovedComment)
		assert.Equal(t, "edited", got.Text)
	})

	t.Run("list ordered by id", func(t *testing.T) {
		list, err := comments.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, comments.Delete(ctx, second.ID))
		assert.ErrorIs(t, comments.Delete(ctx, second.ID), repositories.ErrNotFound)
	})
}

func TestStore_Users(t *testing.T) {
	store := setupTestStore(t)
	users := store.Users()
	ctx := context.Background()

	user := &models.User{Username: "admin", PasswordHash: "hash", CreatedDate: time.Now()}
	require.NoError(t, users.Create(ctx, user))

	got, err := users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", byID.Username)

	err = users.Create(ctx, &models.User{Username: "admin", PasswordHash: "x", CreatedDate: time.Now()})
	assert.ErrorIs(t, err, repositories.ErrConflict)
}

func ids(posts []*models.Post) []int {
	out := make([]int, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
