package repositories

import (
	"context"
	"fmt"
	"strconv"

	"blogapi/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments live under their post's id so listing is a prefix scan; a
// secondary index maps comment id to post id.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment. The parent post must exist.
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		if err := getEntity(txn, postKey(comment.PostID), &models.Post{}); err != nil {
			return err
		}

		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		stored := *comment
		stored.ID = id

		data, err := marshalEntity(&stored)
		if err != nil {
			return err
		}
		if err := txn.Set(commentKey(stored.PostID, id), data); err != nil {
			return err
		}
		if err := txn.Set(commentIndexKey(id), []byte(strconv.Itoa(stored.PostID))); err != nil {
			return err
		}
		comment.ID = id
		return nil
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		key, err := lookupCommentKey(txn, id)
		if err != nil {
			return err
		}
		return getEntity(txn, key, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := view(ctx, r.db, func(txn *badger.Txn) error {
		var err error
		comments, err = listComments(txn, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Update updates an existing comment
func (r *BadgerCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		key, err := lookupCommentKey(txn, comment.ID)
		if err != nil {
			return err
		}

		var existing models.Comment
		if err := getEntity(txn, key, &existing); err != nil {
			return err
		}
		if existing.PostID != comment.PostID {
			return fmt.Errorf("comment %d cannot move from post %d to post %d", comment.ID, existing.PostID, comment.PostID)
		}

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(ctx context.Context, id int) error {
	return update(ctx, r.db, func(txn *badger.Txn) error {
		key, err := lookupCommentKey(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(commentIndexKey(id))
	})
}

func lookupCommentKey(txn *badger.Txn, id int) ([]byte, error) {
	item, err := txn.Get(commentIndexKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	postID, err := readInt(item)
	if err != nil {
		return nil, fmt.Errorf("failed to read comment index: %w", err)
	}
	return commentKey(postID, id), nil
}

// listComments scans the comments stored under postID in id order.
func listComments(txn *badger.Txn, postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	prefix := commentPrefix(postID)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var comment models.Comment
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	return comments, nil
}
