package utils

import "sync"

// OnceValue holds a value that is set at most once. Get blocks until Set has
// been called.
type OnceValue[T any] struct {
	value T
	done  chan struct{}
	once  sync.Once
}

func NewOnceValue[T any]() *OnceValue[T] {
	return &OnceValue[T]{
		done: make(chan struct{}),
	}
}

// Set stores the value and releases all Get callers. Returns false if a value
// was already set; the first value wins.
func (ov *OnceValue[T]) Set(value T) bool {
	ok := false
	ov.once.Do(func() {
		ov.value = value
		close(ov.done)
		ok = true
	})
	return ok
}

// Get returns the stored value, waiting for Set if needed.
func (ov *OnceValue[T]) Get() T {
	<-ov.done
	return ov.value
}

// IsSet reports whether a value has been stored without blocking.
func (ov *OnceValue[T]) IsSet() bool {
	select {
	case <-ov.done:
		return true
	default:
		return false
	}
}
