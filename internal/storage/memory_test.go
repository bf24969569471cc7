package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_LoadEmpty(t *testing.T) {
	m := NewMemory()

	list, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMemory_FailedMutateLeavesListUntouched(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, func(list []reminder.Reminder) ([]reminder.Reminder, error) {
		return append(list, reminder.Reminder{ID: "a", Title: "A"}), nil
	}))

	err := m.Update(ctx, func(list []reminder.Reminder) ([]reminder.Reminder, error) {
		return nil, errors.New("merge conflict")
	})
	require.Error(t, err)

	list, err := m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}

func TestMemory_ConcurrentUpdatesDoNotClobber(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)

	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = m.Update(ctx, func(list []reminder.Reminder) ([]reminder.Reminder, error) {
				return append(list, reminder.Reminder{}), nil
			})
		}()
	}
	wg.Wait()

	list, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, list, writers)
}

func TestMemory_LoadReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, func(list []reminder.Reminder) ([]reminder.Reminder, error) {
		return append(list, reminder.Reminder{ID: "a", Title: "A"}), nil
	}))

	list, err := m.Load(ctx)
	require.NoError(t, err)
	list[0].Title = "mutated"

	again, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Title)
}
