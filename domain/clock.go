package domain

import (
	"sync"
	"time"
)

var (
	clockMu sync.RWMutex
	clock   = func() time.Time { return time.Now() }
)

// SetClock replaces the time source used for timestamps and events. The
// returned func restores the previous one.
func SetClock(now func() time.Time) (restore func()) {
	clockMu.Lock()
	prev := clock
	clock = now
	clockMu.Unlock()
	return func() {
		clockMu.Lock()
		clock = prev
		clockMu.Unlock()
	}
}

// Now returns the current time in UTC at the precision timestamps are stored with.
func Now() time.Time {
	clockMu.RLock()
	now := clock
	clockMu.RUnlock()
	return now().UTC().Truncate(time.Microsecond)
}
