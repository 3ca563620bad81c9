package models

import (
	"errors"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.PublishedDate != nil && p.PublishedDate.Before(p.CreatedDate) {
		return errors.New("published_date cannot precede created_date")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate(now time.Time) {
	if p.CreatedDate.IsZero() {
		p.CreatedDate = now
	}
}

// Publish stamps the post with the given publication time.
func (p *Post) Publish(now time.Time) {
	p.PublishedDate = &now
}

// IsPublished reports whether the post is publicly visible at now.
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishedDate != nil && !p.PublishedDate.After(now)
}

// IsDraft reports whether the post has never been published.
func (p *Post) IsDraft() bool {
	return p.PublishedDate == nil
}
