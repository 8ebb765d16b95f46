package event_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/course-manager/internal/classroom"
	"github.com/vasiliy-maslov/course-manager/internal/db/dbtest"
	"github.com/vasiliy-maslov/course-manager/internal/event"
	"github.com/vasiliy-maslov/course-manager/internal/tag"
	"github.com/vasiliy-maslov/course-manager/internal/user"
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

type fixture struct {
	repo        event.Repository
	users       user.Repository
	organizerID int64
	classroomID int64
	tagID       int64
}

func setup(t *testing.T) fixture {
	t.Helper()
	dbtest.Require(t, testDB)
	dbtest.Truncate(t, testDB)
	ctx := context.Background()

	users := user.NewRepository(testDB)
	organizerID, err := users.Create(ctx, &user.User{
		FirstName: "Anna", Surname: "Nowak", Age: 40, Email: "anna@example.com", PasswordHash: "x", IsOrganizer: true,
	})
	require.NoError(t, err)

	classroomID, err := classroom.NewRepository(testDB).Create(ctx, &classroom.Classroom{ClassroomName: "4.40", Capacity: 30})
	require.NoError(t, err)

	tagID, err := tag.NewRepository(testDB).Create(ctx, &tag.Tag{Name: "Java"})
	require.NoError(t, err)

	return fixture{
		repo:        event.NewRepository(testDB),
		users:       users,
		organizerID: organizerID,
		classroomID: classroomID,
		tagID:       tagID,
	}
}

func (f fixture) createEvent(t *testing.T, maxParticipants, minAge int) int64 {
	t.Helper()
	start := time.Now().UTC().Truncate(time.Second).Add(24 * time.Hour)
	id, err := f.repo.Create(context.Background(), &event.Event{
		Name:            "Workshop",
		StartDatetime:   start,
		EndDatetime:     start.Add(2 * time.Hour),
		MaxParticipants: maxParticipants,
		MinAge:          minAge,
		OrganizerID:     f.organizerID,
		ClassroomID:     f.classroomID,
	}, []int64{f.tagID})
	require.NoError(t, err)
	return id
}

func (f fixture) createParticipant(t *testing.T, email string, age int) int64 {
	t.Helper()
	id, err := f.users.Create(context.Background(), &user.User{
		FirstName: "P", Surname: "P", Age: age, Email: email, PasswordHash: "x",
	})
	require.NoError(t, err)
	return id
}

func TestEventRepository_CreateAndGet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id := f.createEvent(t, 10, 0)

	got, err := f.repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Workshop", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "Java", got.Tags[0].Name)
	assert.Empty(t, got.ParticipantIDs)

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestEventRepository_Create_ConstraintErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	start := time.Now().UTC()

	_, err := f.repo.Create(ctx, &event.Event{
		Name: "Backwards", StartDatetime: start, EndDatetime: start.Add(-time.Hour),
		MaxParticipants: 5, OrganizerID: f.organizerID, ClassroomID: f.classroomID,
	}, nil)
	require.ErrorIs(t, err, event.ErrInvalidTimeRange)

	_, err = f.repo.Create(ctx, &event.Event{
		Name: "No room", StartDatetime: start, EndDatetime: start.Add(time.Hour),
		MaxParticipants: 5, OrganizerID: f.organizerID, ClassroomID: 999,
	}, nil)
	require.ErrorIs(t, err, event.ErrClassroomNotFound)

	_, err = f.repo.Create(ctx, &event.Event{
		Name: "Bad tag", StartDatetime: start, EndDatetime: start.Add(time.Hour),
		MaxParticipants: 5, OrganizerID: f.organizerID, ClassroomID: f.classroomID,
	}, []int64{999})
	require.ErrorIs(t, err, event.ErrTagNotFound)

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all, "failed inserts must not leave events behind")
}

func TestEventRepository_Participants(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	eventID := f.createEvent(t, 1, 18)
	adult := f.createParticipant(t, "adult@example.com", 30)
	teen := f.createParticipant(t, "teen@example.com", 15)
	late := f.createParticipant(t, "late@example.com", 25)

	require.ErrorIs(t, f.repo.AddParticipant(ctx, eventID, teen), event.ErrTooYoung)
	require.NoError(t, f.repo.AddParticipant(ctx, eventID, adult))
	require.ErrorIs(t, f.repo.AddParticipant(ctx, eventID, adult), event.ErrAlreadyEnrolled)
	require.ErrorIs(t, f.repo.AddParticipant(ctx, eventID, late), event.ErrEventFull)
	require.ErrorIs(t, f.repo.AddParticipant(ctx, 999, adult), event.ErrNotFound)
	require.ErrorIs(t, f.repo.AddParticipant(ctx, eventID, 999), event.ErrUserNotFound)

	got, err := f.repo.GetByID(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, []int64{adult}, got.ParticipantIDs)

	require.NoError(t, f.repo.RemoveParticipant(ctx, eventID, adult))
	require.ErrorIs(t, f.repo.RemoveParticipant(ctx, eventID, adult), event.ErrNotEnrolled)
	require.ErrorIs(t, f.repo.RemoveParticipant(ctx, 999, adult), event.ErrNotFound)
}

func TestEventRepository_ConcurrentEnrollmentRespectsCapacity(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	const capacity = 3
	eventID := f.createEvent(t, capacity, 0)

	userIDs := make([]int64, 8)
	for i := range userIDs {
		userIDs[i] = f.createParticipant(t, "p"+string(rune('a'+i))+"@example.com", 20)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(userIDs))
	for i, id := range userIDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			errs[i] = f.repo.AddParticipant(ctx, eventID, id)
		}(i, id)
	}
	wg.Wait()

	enrolled := 0
	for _, err := range errs {
		if err == nil {
			enrolled++
			continue
		}
		require.ErrorIs(t, err, event.ErrEventFull)
	}
	assert.Equal(t, capacity, enrolled)

	got, err := f.repo.GetByID(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, got.ParticipantIDs, capacity)
}

func TestEventRepository_DeleteCascadesAndBlocksOrganizerDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	eventID := f.createEvent(t, 5, 0)
	participant := f.createParticipant(t, "p@example.com", 20)
	require.NoError(t, f.repo.AddParticipant(ctx, eventID, participant))

	require.ErrorIs(t, f.users.Delete(ctx, f.organizerID), user.ErrHasEvents)

	require.NoError(t, f.users.Delete(ctx, participant))
	got, err := f.repo.GetByID(ctx, eventID)
	require.NoError(t, err)
	assert.Empty(t, got.ParticipantIDs)

	require.NoError(t, f.repo.Delete(ctx, eventID))
	require.ErrorIs(t, f.repo.Delete(ctx, eventID), event.ErrNotFound)
	require.NoError(t, f.users.Delete(ctx, f.organizerID))
}
