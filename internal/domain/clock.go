package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps impacts. Tests freeze it via SetClock for deterministic IDs.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for impact timestamps. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now reports the current time of the impact clock in UTC.
func Now() time.Time {
	return clock.Now().UTC()
}
