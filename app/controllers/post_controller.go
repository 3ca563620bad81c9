package controllers

import (
	"log/slog"
	"net/http"

	"blogapi/app/middleware"
	"blogapi/app/schema"
	"blogapi/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	logger      *slog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, logger *slog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// List handles listing published posts
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPublished(r.Context())
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, schema.NewPosts(posts))
}

// Detail handles displaying a single post
func (pc *PostController) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}

	post, err := pc.postService.GetPost(r.Context(), id)
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, schema.NewPost(post))
}

// Create handles creating a new draft owned by the requester
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req schema.PostRequest
	if err := schema.Decode(r.Body, &req); err != nil {
		sendError(w, r, pc.logger, err)
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), user, services.PostInput{Title: *req.Title, Text: *req.Text})
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, schema.NewPost(post))
}

// Edit handles replacing the title and text of an existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r)
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}
	if _, err := pc.postService.GetPost(r.Context(), id); err != nil {
		sendError(w, r, pc.logger, err)
		return
	}

	var req schema.PostRequest
	if err := schema.Decode(r.Body, &req); err != nil {
		sendError(w, r, pc.logger, err)
		return
	}

	post, err := pc.postService.EditPost(r.Context(), id, user, services.PostInput{Title: *req.Title, Text: *req.Text})
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, schema.NewPost(post))
}

// Drafts handles listing unpublished posts
func (pc *PostController) Drafts(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListDrafts(r.Context())
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, schema.NewPosts(posts))
}

// Publish handles stamping a post with the publication time
func (pc *PostController) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}

	post, err := pc.postService.PublishPost(r.Context(), id)
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, schema.NewPost(post))
}

// Remove handles deleting a post and its comments
func (pc *PostController) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		sendError(w, r, pc.logger, err)
		return
	}

	if _, err := pc.postService.DeletePost(r.Context(), id); err != nil {
		sendError(w, r, pc.logger, err)
		return
	}
	sendNoContent(w)
}
