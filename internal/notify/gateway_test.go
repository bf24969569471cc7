package notify

import (
	"context"
	"testing"
	"time"

	"github.com/Raimguhinov/remind-go/internal/platform"
	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, opts ...platform.Option) (*Gateway, *platform.Scheduler) {
	t.Helper()
	l := logger.New("error", "dev")
	scheduler := platform.NewScheduler(l, opts...)
	t.Cleanup(scheduler.Shutdown)
	return New(scheduler, l, t.TempDir()), scheduler
}

func TestEnsurePermission(t *testing.T) {
	t.Run("undecided resolves to granted", func(t *testing.T) {
		gw, _ := newTestGateway(t)
		assert.NoError(t, gw.EnsurePermission(context.Background()))
	})

	t.Run("denied is surfaced", func(t *testing.T) {
		gw, _ := newTestGateway(t,
			platform.InitialPermission(platform.PermissionDenied))
		assert.ErrorIs(t, gw.EnsurePermission(context.Background()),
			reminder.ErrPermissionDenied)
	})
}

func TestScheduleAndCancel(t *testing.T) {
	gw, scheduler := newTestGateway(t)
	ctx := context.Background()

	handle, err := gw.Schedule(ctx,
		reminder.OneShot{Year: 2100, Month: time.June, Day: 1, Hour: 8},
		reminder.Payload{ReminderID: "r1", Title: "Water plants", Body: "Your reminder"},
	)
	require.NoError(t, err)
	require.NotEmpty(t, handle)
	assert.Equal(t, 1, scheduler.Scheduled())

	// Cancelling twice and cancelling garbage are no-ops.
	require.NoError(t, gw.Cancel(ctx, handle))
	require.NoError(t, gw.Cancel(ctx, handle))
	require.NoError(t, gw.Cancel(ctx, "unknown"))
	assert.Equal(t, 0, scheduler.Scheduled())
}

func TestSchedule_QuotaMapsToError(t *testing.T) {
	gw, _ := newTestGateway(t, platform.Capacity(1))
	ctx := context.Background()

	_, err := gw.Schedule(ctx,
		reminder.DailyRepeat{Hour: 8}, reminder.Payload{Title: "a"})
	require.NoError(t, err)

	_, err = gw.Schedule(ctx,
		reminder.DailyRepeat{Hour: 9}, reminder.Payload{Title: "b"})
	require.ErrorIs(t, err, platform.ErrQuotaExceeded)
}

func TestCancelMany_BestEffort(t *testing.T) {
	gw, scheduler := newTestGateway(t)
	ctx := context.Background()

	var handles []string
	for hour := 8; hour < 11; hour++ {
		h, err := gw.Schedule(ctx,
			reminder.DailyRepeat{Hour: hour}, reminder.Payload{Title: "t"})
		require.NoError(t, err)
		handles = append(handles, h)
	}

	// Unknown handles interleaved with real ones: every item still gets an
	// outcome and none of them fail.
	handles = append(handles, "bogus-1", "bogus-2")

	result := gw.CancelMany(ctx, handles)
	require.Len(t, result, 5)
	assert.Empty(t, result.Failed())
	assert.Equal(t, 0, scheduler.Scheduled())
}
