package reminder

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidReminder   = errors.New("invalid reminder")
	ErrPermissionDenied  = errors.New("notification permission denied")
	ErrPersistenceFailed = errors.New("persistence failed")
	ErrNotFound          = errors.New("reminder not found")
)

type Frequency string

const (
	FrequencyNone   Frequency = "none"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

// DayTime is one slot of a custom schedule. Weekday is 1=Monday .. 7=Sunday.
type DayTime struct {
	Weekday int `json:"weekday"`
	Hour    int `json:"hour"`
	Minute  int `json:"minute"`
}

func (dt DayTime) Valid() bool {
	return dt.Weekday >= 1 && dt.Weekday <= 7 &&
		dt.Hour >= 0 && dt.Hour <= 23 &&
		dt.Minute >= 0 && dt.Minute <= 59
}

// Reminder is the persisted unit. NotificationIDs holds the platform handles
// of exactly the live triggers for the current Frequency/DueAt/CustomSchedule;
// mutate it only through Service so it never drifts.
type Reminder struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DueAt           time.Time `json:"date"`
	Image           string    `json:"image,omitempty"`
	Frequency       Frequency `json:"frequency"`
	CustomSchedule  []DayTime `json:"customSchedule,omitempty"`
	NotificationIDs []string  `json:"notificationIds"`
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidReminder)
	}
	if !r.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidReminder, r.Frequency)
	}
	if r.Frequency == FrequencyCustom && len(r.CustomSchedule) == 0 {
		return fmt.Errorf("%w: custom frequency requires a non-empty schedule", ErrInvalidReminder)
	}
	for _, dt := range r.CustomSchedule {
		if !dt.Valid() {
			return fmt.Errorf("%w: schedule slot out of range: %+v", ErrInvalidReminder, dt)
		}
	}
	return nil
}

// Payload is what the platform presents when one of the reminder's triggers
// fires. Image is an opaque local resource locator; the gateway resolves it
// into a displayable attachment.
type Payload struct {
	ReminderID string
	Title      string
	Body       string
	Image      string
}

func (r Reminder) Payload() Payload {
	body := r.Description
	if body == "" {
		body = "Your reminder"
	}
	return Payload{
		ReminderID: r.ID,
		Title:      r.Title,
		Body:       body,
		Image:      r.Image,
	}
}
