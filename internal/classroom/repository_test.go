package classroom_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/course-manager/internal/classroom"
	"github.com/vasiliy-maslov/course-manager/internal/db/dbtest"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	testDB = dbtest.Open()
	exitCode := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(exitCode)
}

func TestClassroomRepository(t *testing.T) {
	dbtest.Require(t, testDB)
	dbtest.Truncate(t, testDB)
	repo := classroom.NewRepository(testDB)
	ctx := context.Background()

	c := &classroom.Classroom{ClassroomName: "4.40", Capacity: 30, Location: "Building D17", Info: "projector"}
	id, err := repo.Create(ctx, c)
	require.NoError(t, err)
	require.NotZero(t, id)

	_, err = repo.Create(ctx, &classroom.Classroom{ClassroomName: "4.40", Capacity: 10})
	require.ErrorIs(t, err, classroom.ErrNameExists)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, *c, *got)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, id))
	require.ErrorIs(t, repo.Delete(ctx, id), classroom.ErrNotFound)

	_, err = repo.GetByID(ctx, id)
	require.ErrorIs(t, err, classroom.ErrNotFound)
}

func TestClassroomRepository_DeleteInUse(t *testing.T) {
	dbtest.Require(t, testDB)
	dbtest.Truncate(t, testDB)
	repo := classroom.NewRepository(testDB)
	ctx := context.Background()

	id, err := repo.Create(ctx, &classroom.Classroom{ClassroomName: "3.27", Capacity: 20})
	require.NoError(t, err)

	var organizerID int64
	err = testDB.QueryRow(ctx, `
		INSERT INTO users (firstname, surname, age, email, password_hash, is_organizer)
		VALUES ('Org', 'Anizer', 40, 'org@example.com', 'x', TRUE) RETURNING id`).Scan(&organizerID)
	require.NoError(t, err)

	_, err = testDB.Exec(ctx, `
		INSERT INTO events (name, start_datetime, end_datetime, max_participants, organizer_id, classroom_id)
		VALUES ('Go workshop', NOW(), NOW() + INTERVAL '2 hours', 10, $1, $2)`, organizerID, id)
	require.NoError(t, err)

	require.ErrorIs(t, repo.Delete(ctx, id), classroom.ErrInUse)
}
