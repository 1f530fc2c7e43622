package otp

import "time"

// CountdownSink renders the remaining cooldown seconds. It is called with
// the countdown lock held and must not start or cancel a countdown on the
// same Lifecycle synchronously.
type CountdownSink interface {
	Remaining(seconds int)
}

// CountdownSinkFunc adapts a function to CountdownSink
type CountdownSinkFunc func(seconds int)

// Remaining calls f(seconds)
func (f CountdownSinkFunc) Remaining(seconds int) {
	f(seconds)
}

type countdown struct {
	task       Task
	remaining  int
	sink       CountdownSink
	onComplete func()
}

// StartResendCountdown cancels any running countdown and starts a new one.
// Every second the sink receives the remaining seconds, from cooldown-1
// down to 0; after the 0 tick the task is released and onComplete runs
// exactly once.
func (l *Lifecycle) StartResendCountdown(sink CountdownSink, onComplete func()) {
	l.cdMu.Lock()
	defer l.cdMu.Unlock()

	l.stopCountdownLocked()

	cd := &countdown{
		remaining:  int(l.cooldown / time.Second),
		sink:       sink,
		onComplete: onComplete,
	}
	cd.task = l.clock.Every(time.Second, func() { l.tick(cd) })
	l.countdown = cd
}

// CancelCountdown releases the running countdown, if any. Once it returns
// no further ticks or completion callbacks are delivered for it.
func (l *Lifecycle) CancelCountdown() {
	l.cdMu.Lock()
	defer l.cdMu.Unlock()

	l.stopCountdownLocked()
}

// CountdownActive reports whether a countdown is running
func (l *Lifecycle) CountdownActive() bool {
	l.cdMu.Lock()
	defer l.cdMu.Unlock()
	return l.countdown != nil
}

func (l *Lifecycle) tick(cd *countdown) {
	l.cdMu.Lock()
	if l.countdown != cd {
		// stale tick from a replaced or cancelled countdown
		l.cdMu.Unlock()
		return
	}

	cd.remaining--
	if cd.sink != nil {
		cd.sink.Remaining(cd.remaining)
	}
	if cd.remaining > 0 {
		l.cdMu.Unlock()
		return
	}

	cd.task.Stop()
	l.countdown = nil
	l.cdMu.Unlock()

	if cd.onComplete != nil {
		cd.onComplete()
	}
}

func (l *Lifecycle) stopCountdownLocked() {
	if l.countdown == nil {
		return
	}
	l.countdown.task.Stop()
	l.countdown = nil
}
