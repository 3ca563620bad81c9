package repositories

import (
	"context"
	"testing"
	"time"

	"blogapi/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository(t *testing.T) {
	repo := setupTestRepository(t)
	comments := repo.Comments()
	ctx := context.Background()
	post := createTestPost(t, repo, "Commented")

	newComment := func(author string) *models.Comment {
		return &models.Comment{PostID: post.ID, Author: author, Text: "text by " + author, CreatedDate: time.Now()}
	}

	t.Run("create and get comment", func(t *testing.T) {
		comment := newComment("alice")
		require.NoError(t, comments.Create(ctx, comment))
		assert.Greater(t, comment.ID, 0)

		got, err := comments.GetByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Author)
		assert.Equal(t, post.ID, got.PostID)
		assert.False(t, got.ApprovedComment)
	})

	t.Run("create on missing post", func(t *testing.T) {
		comment := &models.Comment{PostID: 9999, Author: "x", CreatedDate: time.Now()}
		assert.ErrorIs(t, comments.Create(ctx, comment), ErrNotFound)
		assert.Zero(t, comment.ID)
	})

	t.Run("update comment", func(t *testing.T) {
		comment := newComment("bob")
		require.NoError(t, comments.Create(ctx, comment))

		comment.Text = "edited"
		comment.Approve()
		require.NoError(t, comments.Update(ctx, comment))

		got, err := comments.GetByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Text)
		assert.True(t, got.ApprovedComment)
	})

	t.Run("update missing comment", func(t *testing.T) {
		err := comments.Update(ctx, &models.Comment{ID: 9999, PostID: post.ID})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete comment", func(t *testing.T) {
		comment := newComment("carol")
		require.NoError(t, comments.Create(ctx, comment))

		require.NoError(t, comments.Delete(ctx, comment.ID))
		_, err := comments.GetByID(ctx, comment.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, comments.Delete(ctx, comment.ID), ErrNotFound)
	})

	t.Run("list by post is ordered by id", func(t *testing.T) {
		other := createTestPost(t, repo, "Other")
		require.NoError(t, comments.Create(ctx, &models.Comment{PostID: other.ID, Author: "z", CreatedDate: time.Now()}))

		// Push the sequence past nine so padded keys matter.
		var ids []int
		for i := 0; i < 11; i++ {
			comment := newComment("bulk")
			require.NoError(t, comments.Create(ctx, comment))
			ids = append(ids, comment.ID)
		}

		list, err := comments.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		for i := 1; i < len(list); i++ {
			assert.Less(t, list[i-1].ID, list[i].ID)
		}
		for _, c := range list {
			assert.Equal(t, post.ID, c.PostID)
		}
		assert.Equal(t, ids[len(ids)-1], list[len(list)-1].ID)
	})
}
