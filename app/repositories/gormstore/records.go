package gormstore

import (
	"time"

	"blogapi/app/models"
)

// Table names follow the blog_/auth_ convention so an existing schema can be
// reused without renaming.

type userRecord struct {
	ID           int       `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(128);not null"`
	CreatedDate  time.Time `gorm:"not null"`
}

func (userRecord) TableName() string { return "auth_user" }

type postRecord struct {
	ID            int             `gorm:"primaryKey;autoIncrement"`
	AuthorID      int             `gorm:"not null;index"`
	Title         string          `gorm:"type:varchar(200);not null"`
	Text          string          `gorm:"type:text;not null"`
	CreatedDate   time.Time       `gorm:"not null"`
	PublishedDate *time.Time      `gorm:"index"`
	Comments      []commentRecord `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (postRecord) TableName() string { return "blog_post" }

type commentRecord struct {
	ID              int       `gorm:"primaryKey;autoIncrement"`
	PostID          int       `gorm:"not null;index"`
	Author          string    `gorm:"type:varchar(200);not null"`
	Text            string    `gorm:"type:text;not null"`
	CreatedDate     time.Time `gorm:"not null"`
	ApprovedComment bool      `gorm:"not null;default:false"`
}

func (commentRecord) TableName() string { return "blog_comment" }

// Times are stored in UTC so that sqlite's text comparison orders them correctly.

func toPostRecord(p *models.Post) *postRecord {
	rec := &postRecord{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Text:        p.Text,
		CreatedDate: p.CreatedDate.UTC(),
	}
	if p.PublishedDate != nil {
		published := p.PublishedDate.UTC()
		rec.PublishedDate = &published
	}
	return rec
}

func (r *postRecord) model() *models.Post {
	return &models.Post{
		ID:            r.ID,
		AuthorID:      r.AuthorID,
		Title:         r.Title,
		Text:          r.Text,
		CreatedDate:   r.CreatedDate,
		PublishedDate: r.PublishedDate,
	}
}

func toCommentRecord(c *models.Comment) *commentRecord {
	return &commentRecord{
		ID:              c.ID,
		PostID:          c.PostID,
		Author:          c.Author,
		Text:            c.Text,
		CreatedDate:     c.CreatedDate.UTC(),
		ApprovedComment: c.ApprovedComment,
	}
}

func (r *commentRecord) model() *models.Comment {
	return &models.Comment{
		ID:              r.ID,
		PostID:          r.PostID,
		Author:          r.Author,
		Text:            r.Text,
		CreatedDate:     r.CreatedDate,
		ApprovedComment: r.ApprovedComment,
	}
}

func toUserRecord(u *models.User) *userRecord {
	return &userRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedDate:  u.CreatedDate.UTC(),
	}
}

func (r *userRecord) model() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedDate:  r.CreatedDate,
	}
}
