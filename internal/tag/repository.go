package tag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/course-manager/internal/db"
)

var (
	ErrNotFound   = errors.New("tag not found")
	ErrNameExists = errors.New("tag already exists")
	ErrEmptyName  = errors.New("tag name cannot be empty")
)

type Repository interface {
	Create(ctx context.Context, t *Tag) (int64, error)
	List(ctx context.Context) ([]Tag, error)
	GetByID(ctx context.Context, id int64) (*Tag, error)
	// ListByEventIDs groups the tags of several events in a single query.
	ListByEventIDs(ctx context.Context, eventIDs []int64) (map[int64][]Tag, error)
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

func (r *repository) Create(ctx context.Context, t *Tag) (int64, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO tags (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrNameExists
		}
		return 0, fmt.Errorf("repository: failed to insert tag: %w", err)
	}
	return t.ID, nil
}

func (r *repository) List(ctx context.Context) ([]Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]Tag, 0)
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("repository: failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating tags: %w", err)
	}
	return tags, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	err := r.db.QueryRow(ctx, `SELECT id, name FROM tags WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select tag %d: %w", id, err)
	}
	return &t, nil
}

func (r *repository) ListByEventIDs(ctx context.Context, eventIDs []int64) (map[int64][]Tag, error) {
	result := make(map[int64][]Tag, len(eventIDs))
	if len(eventIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT et.event_id, t.id, t.name
		FROM event_tags et
		JOIN tags t ON t.id = et.tag_id
		WHERE et.event_id = ANY($1)
		ORDER BY et.event_id, t.id
	`
	rows, err := r.db.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query event tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int64
		var t Tag
		if err := rows.Scan(&eventID, &t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("repository: failed to scan event tag: %w", err)
		}
		result[eventID] = append(result[eventID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating event tags: %w", err)
	}
	return result, nil
}
