package reminder

import (
	"context"
	"fmt"
	"sort"

	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/google/uuid"
)

// Service reconciles the notification platform with the persisted reminder
// list: every Create/Edit/Delete cancels stale handles and schedules the
// trigger set of the reminder's current policy, then persists the result.
type Service struct {
	store   Store
	gateway Gateway
	logger  *logger.Logger
}

func NewService(store Store, gateway Gateway, l *logger.Logger) *Service {
	return &Service{
		store:   store,
		gateway: gateway,
		logger:  l,
	}
}

// Create validates the draft, schedules its triggers and appends it to the
// stored list. Individual scheduling failures are tolerated: the reminder is
// saved with whatever handles did succeed, down to none (a silent reminder).
func (s *Service) Create(ctx context.Context, draft Reminder) (Reminder, error) {
	if err := draft.Validate(); err != nil {
		return Reminder{}, fmt.Errorf("reminderService - Create: %w", err)
	}
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}

	draft.NotificationIDs = s.scheduleAll(ctx, draft)

	err := s.store.Update(ctx, func(list []Reminder) ([]Reminder, error) {
		return append(list, draft), nil
	})
	if err != nil {
		// Scheduled triggers are left live on purpose: cancellation is
		// idempotent, so the caller retries the save instead of
		// re-scheduling (which would duplicate triggers).
		return Reminder{}, fmt.Errorf(
			"reminderService - Create - store.Update: %w: %w", ErrPersistenceFailed, err)
	}
	return draft, nil
}

// Edit replaces previous with draft. Old handles are cancelled before any new
// trigger is scheduled, so one logical reminder never has two live schedules.
func (s *Service) Edit(ctx context.Context, previous, draft Reminder) (Reminder, error) {
	if previous.ID == "" || previous.ID != draft.ID {
		return Reminder{}, fmt.Errorf(
			"%w: edit requires matching ids, got %q and %q",
			ErrInvalidReminder, previous.ID, draft.ID)
	}
	if err := draft.Validate(); err != nil {
		return Reminder{}, fmt.Errorf("reminderService - Edit: %w", err)
	}

	s.cancelAll(ctx, previous.NotificationIDs)
	draft.NotificationIDs = s.scheduleAll(ctx, draft)

	err := s.store.Update(ctx, func(list []Reminder) ([]Reminder, error) {
		for i := range list {
			if list[i].ID == previous.ID {
				list[i] = draft
				return list, nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return Reminder{}, fmt.Errorf(
			"reminderService - Edit - store.Update: %w: %w", ErrPersistenceFailed, err)
	}
	return draft, nil
}

// Delete cancels all of the reminder's handles and removes it from the list.
func (s *Service) Delete(ctx context.Context, id string) error {
	target, err := s.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("reminderService - Delete: %w", err)
	}

	s.cancelAll(ctx, target.NotificationIDs)

	err = s.store.Update(ctx, func(list []Reminder) ([]Reminder, error) {
		kept := list[:0]
		for _, r := range list {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf(
			"reminderService - Delete - store.Update: %w: %w", ErrPersistenceFailed, err)
	}
	return nil
}

// List returns the stored reminders ordered by due moment.
func (s *Service) List(ctx context.Context) ([]Reminder, error) {
	list, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reminderService - List - store.Load: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].DueAt.Before(list[j].DueAt)
	})
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (Reminder, error) {
	list, err := s.store.Load(ctx)
	if err != nil {
		return Reminder{}, fmt.Errorf("reminderService - Get - store.Load: %w", err)
	}
	for _, r := range list {
		if r.ID == id {
			return r, nil
		}
	}
	return Reminder{}, ErrNotFound
}

// scheduleAll compiles the reminder's policy and realizes each trigger in
// order. Per-trigger failures and a denied permission are logged, never
// fatal; the returned handles are exactly the triggers that went live.
func (s *Service) scheduleAll(ctx context.Context, r Reminder) []string {
	if err := s.gateway.EnsurePermission(ctx); err != nil {
		s.logger.Warn("reminderService - scheduleAll - saving silent reminder",
			logger.Err(err), "reminder_id", r.ID)
		return nil
	}

	triggers := CompileTriggers(r.Frequency, r.DueAt, r.CustomSchedule)
	payload := r.Payload()

	handles := make([]string, 0, len(triggers))
	for _, trig := range triggers {
		handle, err := s.gateway.Schedule(ctx, trig, payload)
		if err != nil {
			s.logger.Error("reminderService - scheduleAll - gateway.Schedule",
				logger.Err(err), "reminder_id", r.ID)
			continue
		}
		handles = append(handles, handle)
	}
	return handles
}

func (s *Service) cancelAll(ctx context.Context, handles []string) {
	for _, out := range s.gateway.CancelMany(ctx, handles).Failed() {
		s.logger.Error("reminderService - cancelAll - gateway.Cancel",
			logger.Err(out.Err), "handle", out.Handle)
	}
}
