package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/course-manager/internal/db"
	"github.com/vasiliy-maslov/course-manager/internal/tag"
)

var (
	ErrNotFound          = errors.New("event not found")
	ErrInvalidName       = errors.New("event name cannot be empty")
	ErrInvalidTimeRange  = errors.New("event must end after it starts")
	ErrInvalidCapacity   = errors.New("maxParticipants must be greater than zero")
	ErrInvalidMinAge     = errors.New("minAge cannot be negative")
	ErrOrganizerNotFound = errors.New("organizer not found")
	ErrNotOrganizer      = errors.New("user is not an organizer")
	ErrClassroomNotFound = errors.New("classroom not found")
	ErrTagNotFound       = errors.New("tag not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrTooYoung          = errors.New("user is younger than the event minimum age")
	ErrEventFull         = errors.New("event is full")
	ErrAlreadyEnrolled   = errors.New("user is already enrolled")
	ErrNotEnrolled       = errors.New("user is not enrolled")
)

type Repository interface {
	Create(ctx context.Context, e *Event, tagIDs []int64) (int64, error)
	List(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	Delete(ctx context.Context, id int64) error
	AddParticipant(ctx context.Context, eventID, userID int64) error
	RemoveParticipant(ctx context.Context, eventID, userID int64) error
}

type repository struct {
	db   db.Querier
	tags tag.Repository
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q, tags: tag.NewRepository(q)}
}

const eventColumns = `id, name, start_datetime, end_datetime, max_participants, min_age, info,
	organizer_id, classroom_id, created_at, updated_at`

// Create inserts the event and its tag links in one transaction.
func (r *repository) Create(ctx context.Context, e *Event, tagIDs []int64) (int64, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO events (name, start_datetime, end_datetime, max_participants, min_age, info,
				organizer_id, classroom_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			RETURNING id, created_at, updated_at
		`
		now := time.Now().UTC()
		err := tx.QueryRow(ctx, query,
			e.Name,
			e.StartDatetime,
			e.EndDatetime,
			e.MaxParticipants,
			e.MinAge,
			e.Info,
			e.OrganizerID,
			e.ClassroomID,
			now,
		).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return err
		}

		for _, tagID := range tagIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO event_tags (event_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				e.ID, tagID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, translateWriteError(err)
	}

	if e.ParticipantIDs == nil {
		e.ParticipantIDs = []int64{}
	}
	return e.ID, nil
}

func translateWriteError(err error) error {
	switch {
	case db.IsCheckViolation(err):
		if db.ConstraintName(err) == "events_time_range_check" {
			return ErrInvalidTimeRange
		}
		return fmt.Errorf("repository: check violation: %w", err)
	case db.IsForeignKeyViolation(err):
		switch db.ConstraintName(err) {
		case "events_organizer_id_fkey":
			return ErrOrganizerNotFound
		case "events_classroom_id_fkey":
			return ErrClassroomNotFound
		case "event_tags_tag_id_fkey":
			return ErrTagNotFound
		}
	}
	return fmt.Errorf("repository: failed to insert event: %w", err)
}

func (r *repository) List(ctx context.Context) ([]Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_datetime, id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating events: %w", err)
	}
	rows.Close()

	if err := r.loadRelations(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select event %d: %w", id, err)
	}

	events := []Event{*e}
	if err := r.loadRelations(ctx, events); err != nil {
		return nil, err
	}
	return &events[0], nil
}

// loadRelations fills tags and participants with one query each for the whole batch.
func (r *repository) loadRelations(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}

	tagsByEvent, err := r.tags.ListByEventIDs(ctx, ids)
	if err != nil {
		return err
	}

	rows, err := r.db.Query(ctx, `
		SELECT event_id, user_id
		FROM event_participants
		WHERE event_id = ANY($1)
		ORDER BY event_id, enrolled_at, user_id
	`, ids)
	if err != nil {
		return fmt.Errorf("repository: failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make(map[int64][]int64, len(events))
	for rows.Next() {
		var eventID, userID int64
		if err := rows.Scan(&eventID, &userID); err != nil {
			return fmt.Errorf("repository: failed to scan participant: %w", err)
		}
		participants[eventID] = append(participants[eventID], userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("repository: failed iterating participants: %w", err)
	}

	for i := range events {
		events[i].Tags = tagsByEvent[events[i].ID]
		if events[i].Tags == nil {
			events[i].Tags = []tag.Tag{}
		}
		events[i].ParticipantIDs = participants[events[i].ID]
		if events[i].ParticipantIDs == nil {
			events[i].ParticipantIDs = []int64{}
		}
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete event %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddParticipant locks the event row so concurrent enrollments see a consistent
// participant count.
func (r *repository) AddParticipant(ctx context.Context, eventID, userID int64) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var maxParticipants, minAge int
		err := tx.QueryRow(ctx,
			`SELECT max_participants, min_age FROM events WHERE id = $1 FOR UPDATE`, eventID,
		).Scan(&maxParticipants, &minAge)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("repository: failed to lock event %d: %w", eventID, err)
		}

		var age int
		if err := tx.QueryRow(ctx, `SELECT age FROM users WHERE id = $1 FOR SHARE`, userID).Scan(&age); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			return fmt.Errorf("repository: failed to select user %d: %w", userID, err)
		}
		if age < minAge {
			return ErrTooYoung
		}

		var enrolled bool
		var count int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*), COALESCE(BOOL_OR(user_id = $2), FALSE)
			FROM event_participants
			WHERE event_id = $1
		`, eventID, userID).Scan(&count, &enrolled)
		if err != nil {
			return fmt.Errorf("repository: failed to count participants of event %d: %w", eventID, err)
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}
		if count >= maxParticipants {
			return ErrEventFull
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO event_participants (event_id, user_id, enrolled_at) VALUES ($1, $2, $3)`,
			eventID, userID, time.Now().UTC(),
		); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("repository: failed to enroll user %d in event %d: %w", userID, eventID, err)
		}
		return nil
	})
}

func (r *repository) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("repository: failed to remove user %d from event %d: %w", userID, eventID, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return fmt.Errorf("repository: failed to check event %d: %w", eventID, err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrNotEnrolled
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.StartDatetime,
		&e.EndDatetime,
		&e.MaxParticipants,
		&e.MinAge,
		&e.Info,
		&e.OrganizerID,
		&e.ClassroomID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
