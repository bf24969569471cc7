package reminder

import "time"

// Trigger is a closed union of the three platform trigger shapes. Exhaustive
// switches over it keep invalid field combinations unrepresentable.
type Trigger interface {
	isTrigger()
}

// OneShot fires once at the given wall-clock moment and is then exhausted.
type OneShot struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// DailyRepeat fires forever at the given time of day.
type DailyRepeat struct {
	Hour   int
	Minute int
}

// WeeklyRepeat fires forever on the given weekday (1=Monday .. 7=Sunday).
type WeeklyRepeat struct {
	Weekday int
	Hour    int
	Minute  int
}

func (OneShot) isTrigger()      {}
func (DailyRepeat) isTrigger()  {}
func (WeeklyRepeat) isTrigger() {}

// MondayFirstWeekday converts time.Weekday (0=Sunday) to the 1=Monday .. 7=Sunday
// convention used by calendar triggers.
func MondayFirstWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

// CompileTriggers maps a repeat policy onto concrete triggers. Pure and total:
// schedule validity is checked by Reminder.Validate before any scheduling, so
// a custom policy always yields one WeeklyRepeat per slot in insertion order,
// and every other policy yields exactly one trigger.
func CompileTriggers(freq Frequency, dueAt time.Time, custom []DayTime) []Trigger {
	switch freq {
	case FrequencyDaily:
		return []Trigger{DailyRepeat{
			Hour:   dueAt.Hour(),
			Minute: dueAt.Minute(),
		}}
	case FrequencyWeekly:
		return []Trigger{WeeklyRepeat{
			Weekday: MondayFirstWeekday(dueAt),
			Hour:    dueAt.Hour(),
			Minute:  dueAt.Minute(),
		}}
	case FrequencyCustom:
		triggers := make([]Trigger, 0, len(custom))
		for _, dt := range custom {
			triggers = append(triggers, WeeklyRepeat{
				Weekday: dt.Weekday,
				Hour:    dt.Hour,
				Minute:  dt.Minute,
			})
		}
		return triggers
	default:
		return []Trigger{OneShot{
			Year:   dueAt.Year(),
			Month:  dueAt.Month(),
			Day:    dueAt.Day(),
			Hour:   dueAt.Hour(),
			Minute: dueAt.Minute(),
			Second: dueAt.Second(),
		}}
	}
}
