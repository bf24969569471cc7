package platform

import "time"

// Option -.
type Option func(*Scheduler)

// Location sets the wall-clock timezone triggers are evaluated in.
func Location(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.loc = loc
	}
}

// Capacity bounds the number of concurrently armed triggers, 0 is unbounded.
func Capacity(max int) Option {
	return func(s *Scheduler) {
		s.max = max
	}
}

// InitialPermission seeds the permission decision, normally from config.
func InitialPermission(p Permission) Option {
	return func(s *Scheduler) {
		s.perm = p
	}
}
