package services

import (
	"context"
	"fmt"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	now         Clock
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, now Clock) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		now:         clockOrDefault(now),
	}
}

// CommentInput carries the editable fields of a comment.
type CommentInput struct {
	Author string
	Text   string
}

// AddComment creates an unapproved comment on an existing post
func (s *CommentService) AddComment(ctx context.Context, postID int, in CommentInput) (*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}

	comment := &models.Comment{
		Author: in.Author,
		Text:   in.Text,
	}
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	comment.BeforeCreate(s.now())

	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}
	return comment, nil
}

// ListPostComments retrieves all comments for a post ordered by id
func (s *CommentService) ListPostComments(ctx context.Context, postID int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("get post %d: %w", postID, err)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// ApproveComment marks a comment as approved. Approving twice succeeds.
func (s *CommentService) ApproveComment(ctx context.Context, id int) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Approve()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("approve comment %d: %w", id, err)
	}
	return comment, nil
}

// EditComment replaces the author and text of a comment
func (s *CommentService) EditComment(ctx context.Context, id int, in CommentInput) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	comment.Author = in.Author
	comment.Text = in.Text
	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment %d: %w", id, err)
	}
	return comment, nil
}

// DeleteComment deletes a comment
func (s *CommentService) DeleteComment(ctx context.Context, id int) error {
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return nil
}
