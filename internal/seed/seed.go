// Package seed builds the demonstration data set and loads it into an empty database.
//
// Events reference users, classrooms and tags by symbolic keys (email, classroom name,
// tag name). Build resolves and validates every reference before anything is stored,
// and Load inserts the whole set in one transaction.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/classroom"
	"github.com/vasiliy-maslov/course-manager/internal/db"
	"github.com/vasiliy-maslov/course-manager/internal/event"
	"github.com/vasiliy-maslov/course-manager/internal/password"
	"github.com/vasiliy-maslov/course-manager/internal/tag"
	"github.com/vasiliy-maslov/course-manager/internal/user"
)

var ErrInvalidDataset = errors.New("invalid seed dataset")

// UserSeed carries the plain password until Build hashes it.
type UserSeed struct {
	User     user.User
	Password string
}

func NewUser(firstname, surname string, age int, email, plainPassword string, isOrganizer bool) UserSeed {
	return UserSeed{
		User: user.User{
			FirstName:   firstname,
			Surname:     surname,
			Age:         age,
			Email:       email,
			IsOrganizer: isOrganizer,
		},
		Password: plainPassword,
	}
}

type EventSeed struct {
	Name            string
	StartDatetime   time.Time
	EndDatetime     time.Time
	MaxParticipants int
	MinAge          int
	Info            string
	Organizer       string   // user email
	Classroom       string   // classroom name
	Tags            []string // tag names
	Participants    []string // user emails
}

type Dataset struct {
	Users      []user.User
	Classrooms []classroom.Classroom
	Tags       []tag.Tag
	Events     []EventSeed
}

// Build returns the demo data set with hashed passwords. Building twice yields the
// same references.
func Build(hasher password.Hasher) (*Dataset, error) {
	users := sampleUsers()
	ds := &Dataset{
		Users:      make([]user.User, 0, len(users)),
		Classrooms: sampleClassrooms(),
		Tags:       sampleTags(),
		Events:     sampleEvents(),
	}

	for _, us := range users {
		hash, err := hasher.Hash(us.Password)
		if err != nil {
			return nil, fmt.Errorf("seed: failed to hash password for %s: %w", us.User.Email, err)
		}
		u := us.User
		u.PasswordHash = hash
		ds.Users = append(ds.Users, u)
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks that keys are unique, every reference resolves and every event
// satisfies the same rules the API enforces.
func (ds *Dataset) Validate() error {
	usersByEmail := make(map[string]user.User, len(ds.Users))
	for _, u := range ds.Users {
		if _, dup := usersByEmail[u.Email]; dup {
			return fmt.Errorf("%w: duplicate user email %q", ErrInvalidDataset, u.Email)
		}
		usersByEmail[u.Email] = u
	}

	classrooms := make(map[string]struct{}, len(ds.Classrooms))
	for _, c := range ds.Classrooms {
		if _, dup := classrooms[c.ClassroomName]; dup {
			return fmt.Errorf("%w: duplicate classroom %q", ErrInvalidDataset, c.ClassroomName)
		}
		classrooms[c.ClassroomName] = struct{}{}
	}

	tags := make(map[string]struct{}, len(ds.Tags))
	for _, t := range ds.Tags {
		if _, dup := tags[t.Name]; dup {
			return fmt.Errorf("%w: duplicate tag %q", ErrInvalidDataset, t.Name)
		}
		tags[t.Name] = struct{}{}
	}

	for _, es := range ds.Events {
		in := event.CreateInput{
			Name:            es.Name,
			StartDatetime:   es.StartDatetime,
			EndDatetime:     es.EndDatetime,
			MaxParticipants: es.MaxParticipants,
			MinAge:          es.MinAge,
		}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("%w: event %q: %w", ErrInvalidDataset, es.Name, err)
		}

		organizer, ok := usersByEmail[es.Organizer]
		if !ok {
			return fmt.Errorf("%w: event %q: unknown organizer %q", ErrInvalidDataset, es.Name, es.Organizer)
		}
		if !organizer.IsOrganizer {
			return fmt.Errorf("%w: event %q: %q is not an organizer", ErrInvalidDataset, es.Name, es.Organizer)
		}
		if _, ok := classrooms[es.Classroom]; !ok {
			return fmt.Errorf("%w: event %q: unknown classroom %q", ErrInvalidDataset, es.Name, es.Classroom)
		}
		for _, name := range es.Tags {
			if _, ok := tags[name]; !ok {
				return fmt.Errorf("%w: event %q: unknown tag %q", ErrInvalidDataset, es.Name, name)
			}
		}

		if len(es.Participants) > es.MaxParticipants {
			return fmt.Errorf("%w: event %q: %d participants exceed capacity %d",
				ErrInvalidDataset, es.Name, len(es.Participants), es.MaxParticipants)
		}
		seen := make(map[string]struct{}, len(es.Participants))
		for _, email := range es.Participants {
			p, ok := usersByEmail[email]
			if !ok {
				return fmt.Errorf("%w: event %q: unknown participant %q", ErrInvalidDataset, es.Name, email)
			}
			if _, dup := seen[email]; dup {
				return fmt.Errorf("%w: event %q: participant %q listed twice", ErrInvalidDataset, es.Name, email)
			}
			seen[email] = struct{}{}
			if p.Age < es.MinAge {
				return fmt.Errorf("%w: event %q: participant %q is younger than %d",
					ErrInvalidDataset, es.Name, email, es.MinAge)
			}
		}
	}
	return nil
}

// Load inserts ds when the users table is empty. It reports whether anything was
// inserted.
func Load(ctx context.Context, b db.TxBeginner, ds *Dataset) (bool, error) {
	loaded := false
	err := db.WithTx(ctx, b, func(tx pgx.Tx) error {
		users := user.NewRepository(tx)

		n, err := users.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int64("users", n).Msg("Database already populated, skipping sample data")
			return nil
		}

		userIDs := make(map[string]int64, len(ds.Users))
		for _, u := range ds.Users {
			id, err := users.Create(ctx, &u)
			if err != nil {
				return fmt.Errorf("seed: user %s: %w", u.Email, err)
			}
			userIDs[u.Email] = id
		}

		classrooms := classroom.NewRepository(tx)
		classroomIDs := make(map[string]int64, len(ds.Classrooms))
		for _, c := range ds.Classrooms {
			id, err := classrooms.Create(ctx, &c)
			if err != nil {
				return fmt.Errorf("seed: classroom %s: %w", c.ClassroomName, err)
			}
			classroomIDs[c.ClassroomName] = id
		}

		tags := tag.NewRepository(tx)
		tagIDs := make(map[string]int64, len(ds.Tags))
		for _, t := range ds.Tags {
			id, err := tags.Create(ctx, &t)
			if err != nil {
				return fmt.Errorf("seed: tag %s: %w", t.Name, err)
			}
			tagIDs[t.Name] = id
		}

		events := event.NewRepository(tx)
		for _, es := range ds.Events {
			e := &event.Event{
				Name:            es.Name,
				StartDatetime:   es.StartDatetime,
				EndDatetime:     es.EndDatetime,
				MaxParticipants: es.MaxParticipants,
				MinAge:          es.MinAge,
				Info:            es.Info,
				OrganizerID:     userIDs[es.Organizer],
				ClassroomID:     classroomIDs[es.Classroom],
			}
			ids := make([]int64, 0, len(es.Tags))
			for _, name := range es.Tags {
				ids = append(ids, tagIDs[name])
			}

			eventID, err := events.Create(ctx, e, ids)
			if err != nil {
				return fmt.Errorf("seed: event %s: %w", es.Name, err)
			}
			for _, email := range es.Participants {
				if err := events.AddParticipant(ctx, eventID, userIDs[email]); err != nil {
					return fmt.Errorf("seed: enroll %s in %s: %w", email, es.Name, err)
				}
			}
		}

		loaded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if loaded {
		log.Info().
			Int("users", len(ds.Users)).
			Int("classrooms", len(ds.Classrooms)).
			Int("tags", len(ds.Tags)).
			Int("events", len(ds.Events)).
			Msg("Sample data loaded")
	}
	return loaded, nil
}
