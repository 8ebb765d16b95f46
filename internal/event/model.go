package event

import (
	"strings"
	"time"

	"github.com/vasiliy-maslov/course-manager/internal/tag"
)

type Event struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	StartDatetime   time.Time `json:"startDatetime"`
	EndDatetime     time.Time `json:"endDatetime"`
	MaxParticipants int       `json:"maxParticipants"`
	MinAge          int       `json:"minAge"`
	Info            string    `json:"info"`
	OrganizerID     int64     `json:"organizerId"`
	ClassroomID     int64     `json:"classroomId"`
	Tags            []tag.Tag `json:"tags"`
	ParticipantIDs  []int64   `json:"participantIds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateInput references the organizer, classroom and tags by id.
type CreateInput struct {
	Name            string
	StartDatetime   time.Time
	EndDatetime     time.Time
	MaxParticipants int
	MinAge          int
	Info            string
	OrganizerID     int64
	ClassroomID     int64
	TagIDs          []int64
}

// Validate checks the fields that do not need a database lookup.
func (in CreateInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidName
	}
	if in.StartDatetime.IsZero() || in.EndDatetime.IsZero() || !in.EndDatetime.After(in.StartDatetime) {
		return ErrInvalidTimeRange
	}
	if in.MaxParticipants <= 0 {
		return ErrInvalidCapacity
	}
	if in.MinAge < 0 {
		return ErrInvalidMinAge
	}
	return nil
}

// UniqueTagIDs returns TagIDs without duplicates, keeping the first occurrence order.
func (in CreateInput) UniqueTagIDs() []int64 {
	seen := make(map[int64]struct{}, len(in.TagIDs))
	ids := make([]int64, 0, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
