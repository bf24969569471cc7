package platform

import (
	"testing"
	"time"

	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T, opts ...Option) *Scheduler {
	t.Helper()
	s := NewScheduler(logger.New("error", "dev"), opts...)
	t.Cleanup(s.Shutdown)
	return s
}

func TestFirstFire_OneShot(t *testing.T) {
	s := newTestScheduler(t)

	at, rule, err := s.firstFire(reminder.OneShot{
		Year: 2100, Month: time.June, Day: 1, Hour: 8,
	}, time.Now().In(s.loc))
	require.NoError(t, err)

	assert.Nil(t, rule)
	assert.Equal(t, time.Date(2100, time.June, 1, 8, 0, 0, 0, s.loc), at)
}

func TestFirstFire_PastOneShotFiresImmediately(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Now().In(s.loc)

	at, rule, err := s.firstFire(reminder.OneShot{
		Year: 2000, Month: time.January, Day: 1,
	}, now)
	require.NoError(t, err)

	assert.Nil(t, rule)
	assert.Equal(t, now, at)
}

func TestFirstFire_Daily(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, s.loc)

	at, rule, err := s.firstFire(reminder.DailyRepeat{Hour: 7, Minute: 30}, now)
	require.NoError(t, err)
	require.NotNil(t, rule)

	assert.Equal(t, 7, at.Hour())
	assert.Equal(t, 30, at.Minute())
	assert.True(t, at.After(now))
	assert.LessOrEqual(t, at.Sub(now), 24*time.Hour)
}

func TestFirstFire_WeeklyHonorsMondayFirstConvention(t *testing.T) {
	s := newTestScheduler(t)
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, s.loc) // a Sunday

	for weekday := 1; weekday <= 7; weekday++ {
		at, rule, err := s.firstFire(reminder.WeeklyRepeat{
			Weekday: weekday, Hour: 10, Minute: 0,
		}, now)
		require.NoError(t, err)
		require.NotNil(t, rule)

		assert.Equal(t, weekday, reminder.MondayFirstWeekday(at))
		assert.True(t, at.After(now))
		assert.LessOrEqual(t, at.Sub(now), 7*24*time.Hour)
	}
}

func TestSchedule_QuotaExceeded(t *testing.T) {
	s := newTestScheduler(t, Capacity(1))

	_, err := s.Schedule(Content{Title: "a"}, reminder.OneShot{Year: 2100, Month: 1, Day: 1})
	require.NoError(t, err)

	_, err = s.Schedule(Content{Title: "b"}, reminder.OneShot{Year: 2100, Month: 1, Day: 2})
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, s.Scheduled())
}

func TestCancel_Idempotent(t *testing.T) {
	s := newTestScheduler(t)

	handle, err := s.Schedule(Content{Title: "a"}, reminder.OneShot{Year: 2100, Month: 1, Day: 1})
	require.NoError(t, err)
	require.Equal(t, 1, s.Scheduled())

	s.Cancel(handle)
	assert.Equal(t, 0, s.Scheduled())

	// Second cancel and unknown handles are no-ops.
	s.Cancel(handle)
	s.Cancel("no-such-handle")
	assert.Equal(t, 0, s.Scheduled())
}

func TestCancelAll(t *testing.T) {
	s := newTestScheduler(t)

	for day := 1; day <= 3; day++ {
		_, err := s.Schedule(Content{}, reminder.OneShot{Year: 2100, Month: 1, Day: day})
		require.NoError(t, err)
	}
	require.Equal(t, 3, s.Scheduled())

	s.CancelAll()
	assert.Equal(t, 0, s.Scheduled())
}

func TestPastOneShotDelivers(t *testing.T) {
	s := newTestScheduler(t)

	fired := make(chan Delivery, 1)
	s.SetHandler(func(d Delivery) {
		select {
		case fired <- d:
		default:
		}
	})

	handle, err := s.Schedule(
		Content{Title: "Water plants", Body: "Your reminder", Data: map[string]string{"id": "r1"}},
		reminder.OneShot{Year: 2000, Month: time.January, Day: 1},
	)
	require.NoError(t, err)

	select {
	case d := <-fired:
		assert.Equal(t, handle, d.Handle)
		assert.Equal(t, "Water plants", d.Content.Title)
		assert.Equal(t, "r1", d.Content.Data["id"])
	case <-time.After(3 * time.Second):
		t.Fatal("one-shot did not fire")
	}

	// Exhausted one-shots vanish from the armed set.
	assert.Eventually(t, func() bool { return s.Scheduled() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestSetHandler_FirstRegistrationWins(t *testing.T) {
	s := newTestScheduler(t)

	got := make(chan string, 2)
	s.SetHandler(func(Delivery) { got <- "first" })
	s.SetHandler(func(Delivery) { got <- "second" })

	_, err := s.Schedule(Content{}, reminder.OneShot{Year: 2000, Month: 1, Day: 1})
	require.NoError(t, err)

	select {
	case who := <-got:
		assert.Equal(t, "first", who)
	case <-time.After(3 * time.Second):
		t.Fatal("no delivery")
	}
}

func TestParsePermission(t *testing.T) {
	assert.Equal(t, PermissionGranted, ParsePermission("granted"))
	assert.Equal(t, PermissionDenied, ParsePermission("denied"))
	assert.Equal(t, PermissionUndecided, ParsePermission("undecided"))
	assert.Equal(t, PermissionUndecided, ParsePermission(""))
}

func TestRequestPermission(t *testing.T) {
	s := newTestScheduler(t)
	assert.Equal(t, PermissionUndecided, s.Permission())
	assert.Equal(t, PermissionGranted, s.RequestPermission())
	assert.Equal(t, PermissionGranted, s.Permission())

	denied := newTestScheduler(t, InitialPermission(PermissionDenied))
	assert.Equal(t, PermissionDenied, denied.RequestPermission())
}
