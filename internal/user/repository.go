package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/course-manager/internal/db"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrHasEvents          = errors.New("user organizes events")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOrganizesEvents    = errors.New("user still organizes events")
	ErrTooYoungForEvents  = errors.New("age is below the minimum age of an enrolled event")
)

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user *User) (int64, error)
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db db.Querier
}

// NewRepository accepts a pool or a transaction.
func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const userColumns = `id, firstname, surname, age, email, password_hash, is_organizer, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) (int64, error) {
	query := `
		INSERT INTO users (firstname, surname, age, email, password_hash, is_organizer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, created_at, updated_at
	`

	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query,
		user.FirstName,
		user.Surname,
		user.Age,
		user.Email,
		user.PasswordHash,
		user.IsOrganizer,
		now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrEmailExists
		}
		return 0, fmt.Errorf("repository: failed to insert user: %w", err)
	}

	return user.ID, nil
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating users: %w", err)
	}
	return users, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by id %d: %w", id, err)
	}
	return u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by email %s: %w", email, err)
	}
	return u, nil
}

// Update writes only the non-nil fields of params. An empty update still verifies
// that the user exists.
func (r *repository) Update(ctx context.Context, id int64, params UpdateParams) (*User, error) {
	if params.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	setClauses := make([]string, 0, 7)
	args := make([]any, 0, 8)
	add := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.FirstName != nil {
		add("firstname", *params.FirstName)
	}
	if params.Surname != nil {
		add("surname", *params.Surname)
	}
	if params.Age != nil {
		add("age", *params.Age)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.PasswordHash != nil {
		add("password_hash", *params.PasswordHash)
	}
	if params.IsOrganizer != nil {
		add("is_organizer", *params.IsOrganizer)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	idArg := len(args)
	where := fmt.Sprintf("id = $%d", idArg)

	// An organizer of existing events stays an organizer, and a participant stays at or
	// above the minimum age of every event they attend.
	if params.IsOrganizer != nil && !*params.IsOrganizer {
		where += fmt.Sprintf(` AND NOT EXISTS (SELECT 1 FROM events WHERE organizer_id = $%d)`, idArg)
	}
	if params.Age != nil {
		args = append(args, *params.Age)
		where += fmt.Sprintf(` AND NOT EXISTS (
			SELECT 1 FROM event_participants ep
			JOIN events e ON e.id = ep.event_id
			WHERE ep.user_id = $%d AND e.min_age > $%d)`, idArg, len(args))
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE %s
		RETURNING `+userColumns,
		strings.Join(setClauses, ", "), where)

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.explainSkippedUpdate(ctx, id, params)
		}
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("repository: failed to update user %d: %w", id, err)
	}
	return u, nil
}

// explainSkippedUpdate reports which condition stopped an UPDATE that matched no row.
func (r *repository) explainSkippedUpdate(ctx context.Context, id int64, params UpdateParams) error {
	var age int
	if params.Age != nil {
		age = *params.Age
	}

	var exists, organizes, tooYoung bool
	err := r.db.QueryRow(ctx, `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE id = $1),
			EXISTS (SELECT 1 FROM events WHERE organizer_id = $1),
			EXISTS (SELECT 1 FROM event_participants ep
				JOIN events e ON e.id = ep.event_id
				WHERE ep.user_id = $1 AND e.min_age > $2)
	`, id, age).Scan(&exists, &organizes, &tooYoung)
	if err != nil {
		return fmt.Errorf("repository: failed to inspect user %d after update: %w", id, err)
	}

	switch {
	case !exists:
		return ErrNotFound
	case params.IsOrganizer != nil && !*params.IsOrganizer && organizes:
		return ErrOrganizesEvents
	case params.Age != nil && tooYoung:
		return ErrTooYoungForEvents
	default:
		// the blocking row changed between the two statements
		return ErrNotFound
	}
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrHasEvents
		}
		return fmt.Errorf("repository: failed to delete user %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: failed to count users: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.Surname,
		&u.Age,
		&u.Email,
		&u.PasswordHash,
		&u.IsOrganizer,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
