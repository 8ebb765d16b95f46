package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/password"
)

type Service interface {
	CreateUser(ctx context.Context, user *User, plainPassword string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id int64, input UpdateInput) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, email, plainPassword string) (*User, error)
	ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error
}

type service struct {
	repo   Repository
	hasher password.Hasher
}

func NewService(repo Repository, hasher password.Hasher) Service {
	return &service{repo: repo, hasher: hasher}
}

func (s *service) CreateUser(ctx context.Context, user *User, plainPassword string) (*User, error) {
	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		return nil, fmt.Errorf("internal error hashing password: %w", err)
	}
	user.PasswordHash = hash

	createdID, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to create user in repository")
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	user.ID = createdID
	return user, nil
}

func (s *service) ListUsers(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *service) GetUserByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to get user by id")
		return nil, fmt.Errorf("failed to get user by id '%d': %w", id, err)
	}
	return user, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to get user by email")
		return nil, fmt.Errorf("failed to get user by email '%s': %w", email, err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields of input. A new password is hashed before it
// reaches the repository.
func (s *service) UpdateUser(ctx context.Context, id int64, input UpdateInput) (*User, error) {
	params := UpdateParams{
		FirstName:   input.FirstName,
		Surname:     input.Surname,
		Age:         input.Age,
		Email:       input.Email,
		IsOrganizer: input.IsOrganizer,
	}

	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			log.Error().Err(err).Msg("Failed to hash password")
			return nil, fmt.Errorf("failed to generate hash password: %w", err)
		}
		params.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmailExists) ||
			errors.Is(err, ErrOrganizesEvents) || errors.Is(err, ErrTooYoungForEvents) {
			return nil, err
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to update user")
		return nil, fmt.Errorf("failed to update user by id '%d': %w", id, err)
	}

	return updated, nil
}

func (s *service) DeleteUser(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrHasEvents) {
			return err
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		return fmt.Errorf("failed to delete user by id '%d': %w", id, err)
	}
	return nil
}

// Authenticate returns ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *service) Authenticate(ctx context.Context, email, plainPassword string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to authenticate '%s': %w", email, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, plainPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to authenticate '%s': %w", email, err)
	}

	return user, nil
}

func (s *service) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user '%d': %w", id, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, currentPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to generate hash password: %w", err)
	}

	if _, err := s.repo.Update(ctx, id, UpdateParams{PasswordHash: &hash}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to store new password")
		return fmt.Errorf("failed to change password for user '%d': %w", id, err)
	}

	log.Info().Int64("user_id", id).Msg("Password changed")
	return nil
}
