package services

import (
	"context"
	"fmt"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo repositories.PostRepository
	now      Clock
}

// NewPostService creates a new PostService. A nil clock means SystemClock.
func NewPostService(postRepo repositories.PostRepository, now Clock) *PostService {
	return &PostService{
		postRepo: postRepo,
		now:      clockOrDefault(now),
	}
}

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title string
	Text  string
}

// ListPublished returns the posts published up to now, oldest publication first.
func (s *PostService) ListPublished(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx, repositories.PostFilter{Status: repositories.Published, Now: s.now()})
}

// ListDrafts returns unpublished posts, oldest first.
func (s *PostService) ListDrafts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx, repositories.PostFilter{Status: repositories.Draft})
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}

// CreatePost stores a new draft owned by author
func (s *PostService) CreatePost(ctx context.Context, author *models.User, in PostInput) (*models.Post, error) {
	post := &models.Post{
		AuthorID: author.ID,
		Title:    in.Title,
		Text:     in.Text,
	}
	post.BeforeCreate(s.now())

	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// EditPost replaces title and text and hands ownership to editor
func (s *PostService) EditPost(ctx context.Context, id int, editor *models.User, in PostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	post.AuthorID = editor.ID
	post.Title = in.Title
	post.Text = in.Text

	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return post, nil
}

// PublishPost stamps the post with the current time. Publishing an already
// published post moves its publication time to now.
func (s *PostService) PublishPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Publish(s.now())
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("publish post %d: %w", id, err)
	}
	return post, nil
}

// DeletePost deletes a post and all its comments, returning what was removed
func (s *PostService) DeletePost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete post %d: %w", id, err)
	}
	return post, nil
}
