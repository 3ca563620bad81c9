package services

import (
	"context"
	"errors"
	"fmt"

	"blogapi/app/models"
	"blogapi/app/repositories"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when creating a user whose name exists.
	ErrUsernameTaken = errors.New("username already taken")
)

// UserService manages accounts and verifies credentials
type UserService struct {
	userRepo repositories.UserRepository
	cost     int
	now      Clock

	// dummyHash is compared against when the user does not exist so that
	// unknown and known usernames take the same time to reject.
	dummyHash []byte
}

// NewUserService creates a new UserService. A cost of 0 selects bcrypt.DefaultCost.
func NewUserService(userRepo repositories.UserRepository, cost int, now Clock) *UserService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("blogapi-dummy-password"), cost)
	return &UserService{
		userRepo:  userRepo,
		cost:      cost,
		now:       clockOrDefault(now),
		dummyHash: dummy,
	}
}

// CreateUser stores a new user with a bcrypt password hash
func (s *UserService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash)}
	user.BeforeCreate(s.now())
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user identified by username and password
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
