// Package memory keeps posts, comments and users in process memory. It backs
// tests and the ephemeral "memory" storage mode.
package memory

import (
	"context"
	"sync"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// Store implements repositories.Store with maps guarded by a single mutex.
type Store struct {
	mutex sync.RWMutex

	posts    map[int]*models.Post
	comments map[int]*models.Comment
	users    map[int]*models.User

	nextPostID    int
	nextCommentID int
	nextUserID    int
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		posts:         make(map[int]*models.Post),
		comments:      make(map[int]*models.Comment),
		users:         make(map[int]*models.User),
		nextPostID:    1,
		nextCommentID: 1,
		nextUserID:    1,
	}
}

func (s *Store) Posts() repositories.PostRepository       { return (*PostRepository)(s) }
func (s *Store) Comments() repositories.CommentRepository { return (*CommentRepository)(s) }
func (s *Store) Users() repositories.UserRepository       { return (*UserRepository)(s) }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
func (s *Store) Close() error                   { return nil }

// Clear drops every record and resets the id sequences.
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.posts = make(map[int]*models.Post)
	s.comments = make(map[int]*models.Comment)
	s.users = make(map[int]*models.User)
	s.nextPostID, s.nextCommentID, s.nextUserID = 1, 1, 1
}

// PostRepository implementation. Records are copied on the way in and out so
// callers never share memory with the store.
type PostRepository Store

func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextPostID
	m.nextPostID++
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return copyPost(post), nil
}

func (m *PostRepository) List(ctx context.Context, filter repositories.PostFilter) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for _, post := range m.posts {
		if filter.Match(post) {
			posts = append(posts, copyPost(post))
		}
	}
	filter.Sort(posts)
	return posts, nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	for commentID, comment := range m.comments {
		if comment.PostID == id {
			delete(m.comments, commentID)
		}
	}
	delete(m.posts, id)
	return nil
}

// CommentRepository implementation
type CommentRepository Store

func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[comment.PostID]; !exists {
		return repositories.ErrNotFound
	}
	comment.ID = m.nextCommentID
	m.nextCommentID++
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	found := *comment
	return &found, nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			found := *comment
			comments = append(comments, &found)
		}
	}
	repositories.SortComments(comments)
	return comments, nil
}

func (m *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[comment.ID]; !exists {
		return repositories.ErrNotFound
	}
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// UserRepository implementation
type UserRepository Store

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func copyPost(post *models.Post) *models.Post {
	c := *post
	if post.PublishedDate != nil {
		published := *post.PublishedDate
		c.PublishedDate = &published
	}
	return &c
}
