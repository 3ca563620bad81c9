package schema

import (
	"time"

	"blogapi/app/models"
)

// Version identifies the response representation served under /api.
const Version = "v1"

// PostV1 is the v1 representation of a post.
type PostV1 struct {
	ID            int        `json:"id"`
	Author        int        `json:"author"`
	Title         string     `json:"title"`
	Text          string     `json:"text"`
	CreatedDate   time.Time  `json:"created_date"`
	PublishedDate *time.Time `json:"published_date"`
}

// CommentV1 is the v1 representation of a comment.
type CommentV1 struct {
	ID              int       `json:"id"`
	Post            int       `json:"post"`
	Author          string    `json:"author"`
	Text            string    `json:"text"`
	CreatedDate     time.Time `json:"created_date"`
	ApprovedComment bool      `json:"approved_comment"`
}

// ErrorV1 is the body of every non-2xx response.
type ErrorV1 struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewPost(p *models.Post) PostV1 {
	return PostV1{
		ID:            p.ID,
		Author:        p.AuthorID,
		Title:         p.Title,
		Text:          p.Text,
		CreatedDate:   p.CreatedDate,
		PublishedDate: p.PublishedDate,
	}
}

func NewPosts(posts []*models.Post) []PostV1 {
	out := make([]PostV1, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPost(p))
	}
	return out
}

func NewComment(c *models.Comment) CommentV1 {
	return CommentV1{
		ID:              c.ID,
		Post:            c.PostID,
		Author:          c.Author,
		Text:            c.Text,
		CreatedDate:     c.CreatedDate,
		ApprovedComment: c.ApprovedComment,
	}
}

func NewComments(comments []*models.Comment) []CommentV1 {
	out := make([]CommentV1, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewComment(c))
	}
	return out
}
