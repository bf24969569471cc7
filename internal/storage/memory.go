package storage

import (
	"context"
	"sync"

	"github.com/Raimguhinov/remind-go/internal/reminder"
)

// Memory keeps the reminder list in process memory, serialized by one mutex.
// Used for local runs without postgres and in tests.
type Memory struct {
	mu   sync.Mutex
	list []reminder.Reminder
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) ([]reminder.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]reminder.Reminder, len(m.list))
	copy(out, m.list)
	return out, nil
}

func (m *Memory) Update(
	_ context.Context,
	mutate func([]reminder.Reminder) ([]reminder.Reminder, error),
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := make([]reminder.Reminder, len(m.list))
	copy(work, m.list)

	next, err := mutate(work)
	if err != nil {
		return err
	}
	m.list = next
	return nil
}
