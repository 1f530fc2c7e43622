package otp

import (
	"sync"
	"time"
)

// Clock is the time source used by a Lifecycle. It also schedules the
// repeating countdown task, so the task's lifetime is owned explicitly by
// whoever holds the returned Task.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
	Every(interval time.Duration, fn func()) Task
}

// Task is a cancellable repeating schedule created by Clock.Every
type Task interface {
	// Stop releases the schedule. It is safe to call more than once.
	Stop()
}

// SystemClock returns a Clock backed by the time package
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (systemClock) Every(interval time.Duration, fn func()) Task {
	t := &tickerTask{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTask) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
