package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	return validate.Struct(c)
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate(now time.Time) {
	if c.CreatedDate.IsZero() {
		c.CreatedDate = now
	}
}

// SetPost attaches the comment to its parent post
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.PostID = post.ID
	return nil
}

// Approve marks the comment as vetted. Approving twice is a no-op.
func (c *Comment) Approve() {
	c.ApprovedComment = true
}
