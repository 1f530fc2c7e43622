package otp

import (
	"sync"
	"time"
)

// ManualClock is a Clock that only moves when Advance is called. Timers and
// repeating tasks fire synchronously, in deadline order, on the goroutine
// calling Advance. It is meant for tests and demos that need deterministic
// timing.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
	tasks  []*manualTask
}

type manualTimer struct {
	at time.Time
	ch chan time.Time
}

type manualTask struct {
	clock    *ManualClock
	next     time.Time
	interval time.Duration
	fn       func()
	stopped  bool
}

// NewManualClock creates a ManualClock starting at the given instant
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current instant
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After returns a channel that receives once the clock has advanced by d.
// Non-positive durations fire immediately.
func (c *ManualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.timers = append(c.timers, &manualTimer{at: c.now.Add(d), ch: ch})
	return ch
}

// Every schedules fn every interval of clock time
func (c *ManualClock) Every(interval time.Duration, fn func()) Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTask{
		clock:    c,
		next:     c.now.Add(interval),
		interval: interval,
		fn:       fn,
	}
	c.tasks = append(c.tasks, t)
	return t
}

// Stop removes the task from its clock
func (t *manualTask) Stop() {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	t.stopped = true
	for i, other := range c.tasks {
		if other == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			break
		}
	}
}

// Advance moves the clock forward by d, firing every timer and task tick
// that falls due along the way.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		at, fire := c.nextDueLocked(target)
		if fire == nil {
			break
		}
		c.now = at
		c.mu.Unlock()
		fire()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Pending returns the number of armed timers and tasks
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers) + len(c.tasks)
}

// BlockUntil waits until at least n timers or tasks are armed. It lets a
// test advance the clock only after a goroutine has started waiting on it.
func (c *ManualClock) BlockUntil(n int) {
	for c.Pending() < n {
		time.Sleep(time.Millisecond)
	}
}

func (c *ManualClock) nextDueLocked(target time.Time) (time.Time, func()) {
	var (
		earliest time.Time
		timerIdx = -1
		task     *manualTask
	)

	for i, t := range c.timers {
		if t.at.After(target) {
			continue
		}
		if timerIdx == -1 || t.at.Before(earliest) {
			earliest = t.at
			timerIdx = i
		}
	}
	for _, t := range c.tasks {
		if t.next.After(target) {
			continue
		}
		if (timerIdx == -1 && task == nil) || t.next.Before(earliest) {
			earliest = t.next
			timerIdx = -1
			task = t
		}
	}

	switch {
	case task != nil:
		task.next = task.next.Add(task.interval)
		return earliest, func() {
			c.mu.Lock()
			stopped := task.stopped
			c.mu.Unlock()
			if !stopped {
				task.fn()
			}
		}
	case timerIdx >= 0:
		timer := c.timers[timerIdx]
		c.timers = append(c.timers[:timerIdx], c.timers[timerIdx+1:]...)
		return earliest, func() {
			timer.ch <- timer.at
		}
	default:
		return time.Time{}, nil
	}
}
