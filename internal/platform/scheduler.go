// Package platform realizes notification triggers in-process: each armed
// trigger gets a timer goroutine that fires the registered handler at the
// right wall-clock moments, repeating per its recurrence rule.
package platform

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
	"github.com/Raimguhinov/remind-go/pkg/utils"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"golang.org/x/sync/errgroup"
)

var ErrQuotaExceeded = errors.New("trigger quota exceeded")

type Permission int

const (
	PermissionUndecided Permission = iota
	PermissionGranted
	PermissionDenied
)

func ParsePermission(s string) Permission {
	switch s {
	case "granted":
		return PermissionGranted
	case "denied":
		return PermissionDenied
	}
	return PermissionUndecided
}

// Content is the displayable part of a scheduled notification.
type Content struct {
	Title      string
	Body       string
	Data       map[string]string
	Attachment string
}

// Delivery is handed to the registered handler when a trigger fires.
type Delivery struct {
	Handle  string
	Content Content
	FiredAt time.Time
}

type Handler func(Delivery)

type armedTrigger struct {
	content Content
	rule    *rrule.RRule // nil for one-shots
	at      time.Time    // first fire moment
	cancel  chan struct{}
}

// Scheduler is the notification platform service. The presentation handler is
// process-wide configuration, registered once at bootstrap via SetHandler.
type Scheduler struct {
	logger  *logger.Logger
	loc     *time.Location
	max     int
	handler *utils.OnceValue[Handler]

	mu    sync.Mutex
	perm  Permission
	armed map[string]*armedTrigger
	eg    errgroup.Group
}

func NewScheduler(l *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:  l,
		loc:     time.Local,
		handler: utils.NewOnceValue[Handler](),
		armed:   make(map[string]*armedTrigger),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetHandler registers the process-wide presentation callback. Only the first
// registration takes effect.
func (s *Scheduler) SetHandler(h Handler) {
	if !s.handler.Set(h) {
		s.logger.Warn("platform - SetHandler - handler already registered")
	}
}

// Permission returns the current permission decision.
func (s *Scheduler) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.perm
}

// RequestPermission asks the user when the decision is still open. An
// undecided state resolves to granted; a denial is final.
func (s *Scheduler) RequestPermission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perm == PermissionUndecided {
		s.perm = PermissionGranted
	}
	return s.perm
}

// Schedule arms one trigger and returns its handle. Quota exhaustion fails
// with ErrQuotaExceeded; the trigger is not armed.
func (s *Scheduler) Schedule(content Content, trig reminder.Trigger) (string, error) {
	at, rule, err := s.firstFire(trig, time.Now().In(s.loc))
	if err != nil {
		return "", fmt.Errorf("platform - Schedule: %w", err)
	}

	s.mu.Lock()
	if s.max > 0 && len(s.armed) >= s.max {
		s.mu.Unlock()
		return "", fmt.Errorf("platform - Schedule: %w", ErrQuotaExceeded)
	}

	handle := uuid.New().String()
	t := &armedTrigger{
		content: content,
		rule:    rule,
		at:      at,
		cancel:  make(chan struct{}),
	}
	s.armed[handle] = t
	s.mu.Unlock()

	s.eg.Go(func() error {
		s.run(handle, t)
		return nil
	})

	return handle, nil
}

// Cancel retracts a handle. Unknown or already-fired handles are a no-op.
func (s *Scheduler) Cancel(handle string) {
	s.mu.Lock()
	t, ok := s.armed[handle]
	if ok {
		delete(s.armed, handle)
	}
	s.mu.Unlock()

	if ok {
		close(t.cancel)
	}
}

// CancelAll retracts every armed trigger.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	armed := s.armed
	s.armed = make(map[string]*armedTrigger)
	s.mu.Unlock()

	for _, t := range armed {
		close(t.cancel)
	}
}

// Scheduled returns the number of currently armed triggers.
func (s *Scheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed)
}

// Shutdown cancels all triggers and waits for fire goroutines to drain.
func (s *Scheduler) Shutdown() {
	s.CancelAll()
	_ = s.eg.Wait()
}

func (s *Scheduler) run(handle string, t *armedTrigger) {
	next := t.at
	for {
		timer := time.NewTimer(time.Until(next))
		select {
		case <-t.cancel:
			timer.Stop()
			return
		case firedAt := <-timer.C:
			s.deliver(handle, t.content, firedAt)
			if t.rule == nil {
				// One-shot triggers exhaust themselves.
				s.forget(handle)
				return
			}
			next = t.rule.After(time.Now().In(s.loc), false)
			if next.IsZero() {
				s.forget(handle)
				return
			}
		}
	}
}

func (s *Scheduler) deliver(handle string, content Content, firedAt time.Time) {
	h := s.handler.Get()
	h(Delivery{
		Handle:  handle,
		Content: content,
		FiredAt: firedAt,
	})
}

func (s *Scheduler) forget(handle string) {
	s.mu.Lock()
	delete(s.armed, handle)
	s.mu.Unlock()
}

var rruleWeekdays = [...]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// firstFire computes the first fire moment for a trigger and, for repeating
// kinds, the rule that yields the following ones. A past-dated one-shot fires
// immediately.
func (s *Scheduler) firstFire(trig reminder.Trigger, now time.Time) (time.Time, *rrule.RRule, error) {
	switch t := trig.(type) {
	case reminder.OneShot:
		at := time.Date(t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, 0, s.loc)
		if at.Before(now) {
			at = now
		}
		return at, nil, nil
	case reminder.DailyRepeat:
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:     rrule.DAILY,
			Dtstart:  now,
			Byhour:   []int{t.Hour},
			Byminute: []int{t.Minute},
			Bysecond: []int{0},
		})
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("rrule.NewRRule: %w", err)
		}
		return rule.After(now, false), rule, nil
	case reminder.WeeklyRepeat:
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   now,
			Byweekday: []rrule.Weekday{rruleWeekdays[t.Weekday-1]},
			Byhour:    []int{t.Hour},
			Byminute:  []int{t.Minute},
			Bysecond:  []int{0},
		})
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("rrule.NewRRule: %w", err)
		}
		return rule.After(now, false), rule, nil
	default:
		return time.Time{}, nil, fmt.Errorf("unsupported trigger %T", trig)
	}
}
