package repositories

import (
	"sort"
	"time"

	"blogapi/app/models"
)

// PostStatus selects posts by publication state.
type PostStatus int

const (
	// AnyStatus matches every post, ordered by id.
	AnyStatus PostStatus = iota
	// Published matches posts published at or before PostFilter.Now, ordered by published date.
	Published
	// Draft matches unpublished posts, ordered by creation date.
	Draft
)

// PostFilter narrows PostRepository.List.
type PostFilter struct {
	Status PostStatus
	Now    time.Time
}

// Match reports whether post passes the filter.
func (f PostFilter) Match(post *models.Post) bool {
	switch f.Status {
	case Published:
		return post.IsPublished(f.Now)
	case Draft:
		return post.IsDraft()
	default:
		return true
	}
}

// Sort orders posts the way the filter's status requires. Ties break on id.
func (f PostFilter) Sort(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		switch f.Status {
		case Published:
			if !a.PublishedDate.Equal(*b.PublishedDate) {
				return a.PublishedDate.Before(*b.PublishedDate)
			}
		case Draft:
			if !a.CreatedDate.Equal(b.CreatedDate) {
				return a.CreatedDate.Before(b.CreatedDate)
			}
		}
		return a.ID < b.ID
	})
}

// SortComments orders comments by id.
func SortComments(comments []*models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})
}
