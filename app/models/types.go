package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post represents a blog post. A nil PublishedDate marks a draft.
type Post struct {
	ID            int        `json:"id" validate:"gte=0"`
	AuthorID      int        `json:"author_id" validate:"required,gt=0"`
	Title         string     `json:"title" validate:"max=200"`
	Text          string     `json:"text"`
	CreatedDate   time.Time  `json:"created_date" validate:"required"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
}

// Comment represents a comment left on a blog post.
type Comment struct {
	ID              int       `json:"id" validate:"gte=0"`
	PostID          int       `json:"post_id" validate:"required,gt=0"`
	Author          string    `json:"author" validate:"max=200"`
	Text            string    `json:"text"`
	CreatedDate     time.Time `json:"created_date" validate:"required"`
	ApprovedComment bool      `json:"approved_comment"`
}

// User is an account allowed to write and publish posts.
type User struct {
	ID           int       `json:"id" validate:"gte=0"`
	Username     string    `json:"username" validate:"required,min=1,max=150"`
	PasswordHash string    `json:"password_hash" validate:"required"`
	CreatedDate  time.Time `json:"created_date" validate:"required"`
}
