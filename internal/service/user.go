package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"nycarrests/internal/model"
	"nycarrests/internal/repository"
	"nycarrests/internal/validate"
)

// minPasswordLength is the floor the data layer enforces. The route layer
// applies the stricter validate.Password policy on top.
const minPasswordLength = 8

// UserService handles accounts and favorites.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new account. Username and email are folded to lower
// case and must both be unique; only a bcrypt hash of the password is ever
// stored, and the returned user has the hash stripped.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username, err := validate.Username(req.Username)
	if err != nil {
		return nil, err
	}

	email, err := validate.Email(req.Email)
	if err != nil {
		return nil, err
	}

	if len(req.Password) < minPasswordLength {
		return nil, &validate.ValidationError{Field: "password", Reason: "must be at least 8 characters long"}
	}

	// Uniqueness checks on both keys before writing.
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, model.ErrUsernameExists
	} else if err != model.ErrUserNotFound {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailExists
	} else if err != model.ErrUserNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
		Favorites: []string{},
		Comments:  []string{},
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// Authenticate verifies credentials by case-folded username. Not-found and
// bad-password are distinct kinds here for logging; handlers collapse both
// to model.ErrInvalidCredentials so callers cannot probe for usernames.
func (s *UserService) Authenticate(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	username, err := validate.Username(req.Username)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidPassword
	}

	user.Password = ""
	return user, nil
}

// GetByID returns the user with the password hash stripped.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	id, err := validate.ID(id, "id")
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// GetByUsername returns the user with the password hash stripped.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username, err := validate.Username(username)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// AddFavorite records an arrest id on the user's favorites set. Adding the
// same id twice leaves exactly one entry.
func (s *UserService) AddFavorite(ctx context.Context, userID, arrestID string) error {
	userID, err := validate.ID(userID, "userId")
	if err != nil {
		return err
	}
	arrestID, err = validate.ID(arrestID, "arrestId")
	if err != nil {
		return err
	}

	matched, err := s.repo.AddFavorite(ctx, userID, arrestID)
	if err != nil {
		return err
	}
	if !matched {
		return model.ErrUserNotFound
	}
	return nil
}

// RemoveFavorite is idempotent: removing an id that was never a favorite
// succeeds as long as the user exists.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, arrestID string) error {
	userID, err := validate.ID(userID, "userId")
	if err != nil {
		return err
	}
	arrestID, err = validate.ID(arrestID, "arrestId")
	if err != nil {
		return err
	}

	matched, _, err := s.repo.RemoveFavorite(ctx, userID, arrestID)
	if err != nil {
		return err
	}
	if !matched {
		return model.ErrUserNotFound
	}
	return nil
}
