package classroom

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateClassroom(ctx context.Context, c *Classroom) (*Classroom, error)
	ListClassrooms(ctx context.Context) ([]Classroom, error)
	GetClassroomByID(ctx context.Context, id int64) (*Classroom, error)
	DeleteClassroom(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateClassroom(ctx context.Context, c *Classroom) (*Classroom, error) {
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, ErrNameExists) {
			return nil, ErrNameExists
		}
		log.Error().Err(err).Str("classroom_name", c.ClassroomName).Msg("Failed to create classroom")
		return nil, fmt.Errorf("failed to save classroom: %w", err)
	}
	c.ID = id
	return c, nil
}

func (s *service) ListClassrooms(ctx context.Context) ([]Classroom, error) {
	classrooms, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list classrooms")
		return nil, fmt.Errorf("failed to list classrooms: %w", err)
	}
	return classrooms, nil
}

func (s *service) GetClassroomByID(ctx context.Context, id int64) (*Classroom, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get classroom by id '%d': %w", id, err)
	}
	return c, nil
}

func (s *service) DeleteClassroom(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInUse) {
			return err
		}
		log.Error().Err(err).Int64("classroom_id", id).Msg("Failed to delete classroom")
		return fmt.Errorf("failed to delete classroom by id '%d': %w", id, err)
	}
	return nil
}
