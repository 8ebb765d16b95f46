package classroom

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/course-manager/internal/db"
)

var (
	ErrNotFound   = errors.New("classroom not found")
	ErrNameExists = errors.New("classroom name already exists")
	ErrInUse      = errors.New("classroom is used by events")
)

type Repository interface {
	Create(ctx context.Context, c *Classroom) (int64, error)
	List(ctx context.Context) ([]Classroom, error)
	GetByID(ctx context.Context, id int64) (*Classroom, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

func (r *repository) Create(ctx context.Context, c *Classroom) (int64, error) {
	query := `
		INSERT INTO classrooms (classroom_name, capacity, location, info)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, c.ClassroomName, c.Capacity, c.Location, c.Info).Scan(&c.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrNameExists
		}
		return 0, fmt.Errorf("repository: failed to insert classroom: %w", err)
	}
	return c.ID, nil
}

func (r *repository) List(ctx context.Context) ([]Classroom, error) {
	rows, err := r.db.Query(ctx, `SELECT id, classroom_name, capacity, location, info FROM classrooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query classrooms: %w", err)
	}
	defer rows.Close()

	classrooms := make([]Classroom, 0)
	for rows.Next() {
		var c Classroom
		if err := rows.Scan(&c.ID, &c.ClassroomName, &c.Capacity, &c.Location, &c.Info); err != nil {
			return nil, fmt.Errorf("repository: failed to scan classroom: %w", err)
		}
		classrooms = append(classrooms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating classrooms: %w", err)
	}
	return classrooms, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Classroom, error) {
	var c Classroom
	err := r.db.QueryRow(ctx,
		`SELECT id, classroom_name, capacity, location, info FROM classrooms WHERE id = $1`, id,
	).Scan(&c.ID, &c.ClassroomName, &c.Capacity, &c.Location, &c.Info)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select classroom %d: %w", id, err)
	}
	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM classrooms WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("repository: failed to delete classroom %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
