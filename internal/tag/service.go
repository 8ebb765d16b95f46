package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateTag(ctx context.Context, t *Tag) (*Tag, error)
	ListTags(ctx context.Context) ([]Tag, error)
	GetTagByID(ctx context.Context, id int64) (*Tag, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateTag trims surrounding whitespace so "Java " and "Java" collide.
func (s *service) CreateTag(ctx context.Context, t *Tag) (*Tag, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, ErrEmptyName
	}

	id, err := s.repo.Create(ctx, t)
	if err != nil {
		if errors.Is(err, ErrNameExists) {
			return nil, ErrNameExists
		}
		log.Error().Err(err).Str("tag", t.Name).Msg("Failed to create tag")
		return nil, fmt.Errorf("failed to save tag: %w", err)
	}
	t.ID = id
	return t, nil
}

func (s *service) ListTags(ctx context.Context) ([]Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tags")
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *service) GetTagByID(ctx context.Context, id int64) (*Tag, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tag by id '%d': %w", id, err)
	}
	return t, nil
}
