package controllers

import (
	"log/slog"
	"net/http"

	"blogapi/app/schema"
	"blogapi/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
	postService    *services.PostService
	logger         *slog.Logger
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService, postService *services.PostService, logger *slog.Logger) *CommentController {
	return &CommentController{
		commentService: commentService,
		postService:    postService,
		logger:         logger,
	}
}

// Add handles creating an unapproved comment on a post
func (cc *CommentController) Add(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}
	if _, err := cc.postService.GetPost(r.Context(), postID); err != nil {
		sendError(w, r, cc.logger, err)
		return
	}

	var req schema.CommentRequest
	if err := schema.Decode(r.Body, &req); err != nil {
		sendError(w, r, cc.logger, err)
		return
	}

	comment, err := cc.commentService.AddComment(r.Context(), postID, services.CommentInput{Author: *req.Author, Text: *req.Text})
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, schema.NewComment(comment))
}

// List handles listing the comments of a post
func (cc *CommentController) List(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}

	comments, err := cc.commentService.ListPostComments(r.Context(), postID)
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, schema.NewComments(comments))
}

// Approve handles marking a comment as approved
func (cc *CommentController) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}

	comment, err := cc.commentService.ApproveComment(r.Context(), id)
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, schema.NewComment(comment))
}

// Edit handles replacing the author and text of a comment
func (cc *CommentController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}
	if _, err := cc.commentService.GetComment(r.Context(), id); err != nil {
		sendError(w, r, cc.logger, err)
		return
	}

	var req schema.CommentRequest
	if err := schema.Decode(r.Body, &req); err != nil {
		sendError(w, r, cc.logger, err)
		return
	}

	comment, err := cc.commentService.EditComment(r.Context(), id, services.CommentInput{Author: *req.Author, Text: *req.Text})
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, schema.NewComment(comment))
}

// Remove handles deleting a comment
func (cc *CommentController) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendError(w, r, cc.logger, err)
		return
	}

	if err := cc.commentService.DeleteComment(r.Context(), id); err != nil {
		sendError(w, r, cc.logger, err)
		return
	}
	sendNoContent(w)
}
