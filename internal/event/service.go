package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/classroom"
	"github.com/vasiliy-maslov/course-manager/internal/tag"
	"github.com/vasiliy-maslov/course-manager/internal/user"
)

// UserLookup is satisfied by user.Service.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
}

// ClassroomLookup is satisfied by classroom.Service.
type ClassroomLookup interface {
	GetClassroomByID(ctx context.Context, id int64) (*classroom.Classroom, error)
}

// TagLookup is satisfied by tag.Service.
type TagLookup interface {
	GetTagByID(ctx context.Context, id int64) (*tag.Tag, error)
}

type Service interface {
	CreateEvent(ctx context.Context, input CreateInput) (*Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	GetEventByID(ctx context.Context, id int64) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	EnrollParticipant(ctx context.Context, eventID, userID int64) error
	RemoveParticipant(ctx context.Context, eventID, userID int64) error
}

type service struct {
	repo       Repository
	users      UserLookup
	classrooms ClassroomLookup
	tags       TagLookup
}

func NewService(repo Repository, users UserLookup, classrooms ClassroomLookup, tags TagLookup) Service {
	return &service{repo: repo, users: users, classrooms: classrooms, tags: tags}
}

func (s *service) CreateEvent(ctx context.Context, input CreateInput) (*Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	organizer, err := s.users.GetUserByID(ctx, input.OrganizerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrOrganizerNotFound
		}
		return nil, fmt.Errorf("failed to load organizer '%d': %w", input.OrganizerID, err)
	}
	if !organizer.IsOrganizer {
		return nil, ErrNotOrganizer
	}

	if _, err := s.classrooms.GetClassroomByID(ctx, input.ClassroomID); err != nil {
		if errors.Is(err, classroom.ErrNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("failed to load classroom '%d': %w", input.ClassroomID, err)
	}

	tagIDs := input.UniqueTagIDs()
	tags := make([]tag.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		t, err := s.tags.GetTagByID(ctx, id)
		if err != nil {
			if errors.Is(err, tag.ErrNotFound) {
				return nil, ErrTagNotFound
			}
			return nil, fmt.Errorf("failed to load tag '%d': %w", id, err)
		}
		tags = append(tags, *t)
	}

	e := &Event{
		Name:            input.Name,
		StartDatetime:   input.StartDatetime,
		EndDatetime:     input.EndDatetime,
		MaxParticipants: input.MaxParticipants,
		MinAge:          input.MinAge,
		Info:            input.Info,
		OrganizerID:     input.OrganizerID,
		ClassroomID:     input.ClassroomID,
		Tags:            tags,
		ParticipantIDs:  []int64{},
	}

	id, err := s.repo.Create(ctx, e, tagIDs)
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		log.Error().Err(err).Str("event", input.Name).Msg("Failed to create event")
		return nil, fmt.Errorf("failed to save event: %w", err)
	}
	e.ID = id

	log.Info().Int64("event_id", id).Int64("organizer_id", input.OrganizerID).Msg("Event created")
	return e, nil
}

func (s *service) ListEvents(ctx context.Context) ([]Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list events")
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *service) GetEventByID(ctx context.Context, id int64) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Int64("event_id", id).Msg("Event not found")
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event by id '%d': %w", id, err)
	}
	return e, nil
}

func (s *service) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Int64("event_id", id).Msg("Failed to delete event")
		return fmt.Errorf("failed to delete event by id '%d': %w", id, err)
	}
	return nil
}

func (s *service) EnrollParticipant(ctx context.Context, eventID, userID int64) error {
	if err := s.repo.AddParticipant(ctx, eventID, userID); err != nil {
		if isDomainError(err) {
			return err
		}
		log.Error().Err(err).Int64("event_id", eventID).Int64("user_id", userID).Msg("Failed to enroll participant")
		return fmt.Errorf("failed to enroll user '%d' in event '%d': %w", userID, eventID, err)
	}
	log.Info().Int64("event_id", eventID).Int64("user_id", userID).Msg("Participant enrolled")
	return nil
}

func (s *service) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	if err := s.repo.RemoveParticipant(ctx, eventID, userID); err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("failed to remove user '%d' from event '%d': %w", userID, eventID, err)
	}
	return nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidName, ErrInvalidTimeRange, ErrInvalidCapacity, ErrInvalidMinAge,
		ErrOrganizerNotFound, ErrNotOrganizer, ErrClassroomNotFound, ErrTagNotFound,
		ErrUserNotFound, ErrTooYoung, ErrEventFull, ErrAlreadyEnrolled, ErrNotEnrolled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
