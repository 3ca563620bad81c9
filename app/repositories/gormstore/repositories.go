package gormstore

import (
	"context"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository implements repositories.PostRepository.
type PostRepository struct {
	db *gorm.DB
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	rec := toPostRecord(post)
	rec.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return translate(err)
	}
	post.ID = rec.ID
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var rec postRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return rec.model(), nil
}

func (r *PostRepository) List(ctx context.Context, filter repositories.PostFilter) ([]*models.Post, error) {
	query := r.db.WithContext(ctx)
	switch filter.Status {
	case repositories.Published:
		query = query.
			Where("published_date IS NOT NULL AND published_date <= ?", filter.Now.UTC()).
			Order("published_date ASC, id ASC")
	case repositories.Draft:
		query = query.Where("published_date IS NULL").Order("created_date ASC, id ASC")
	default:
		query = query.Order("id ASC")
	}

	var recs []postRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, translate(err)
	}
	posts := make([]*models.Post, 0, len(recs))
	for i := range recs {
		posts = append(posts, recs[i].model())
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	rec := toPostRecord(post)
	res := r.db.WithContext(ctx).Model(&postRecord{ID: post.ID}).
		Select("author_id", "title", "text", "created_date", "published_date").
		Updates(rec)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&commentRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&postRecord{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

// CommentRepository implements repositories.CommentRepository.
type CommentRepository struct {
	db *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	rec := toCommentRecord(comment)
	rec.ID = 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&postRecord{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repositories.ErrNotFound
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return translate(err)
	}
	comment.ID = rec.ID
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var rec commentRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return rec.model(), nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	var recs []commentRecord
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id ASC").Find(&recs).Error
	if err != nil {
		return nil, translate(err)
	}
	comments := make([]*models.Comment, 0, len(recs))
	for i := range recs {
		comments = append(comments, recs[i].model())
	}
	return comments, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	rec := toCommentRecord(comment)
	res := r.db.WithContext(ctx).Model(&commentRecord{ID: comment.ID}).
		Select("author", "text", "approved_comment").
		Updates(rec)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&commentRecord{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// UserRepository implements repositories.UserRepository.
type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	rec := toUserRecord(user)
	rec.ID = 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userRecord{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return repositories.ErrConflict
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return translate(err)
	}
	user.ID = rec.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return rec.model(), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).First(&rec, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return rec.model(), nil
}
