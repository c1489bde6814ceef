// gate.go: single-flight gate keyed by calendar day.
package reconcile

import (
	"sync"
	"time"
)

// dayGate runs a function at most once per calendar day. The mutex is
// held across the run, so concurrent triggers on a day boundary serialize:
// the first runs the pass, the rest observe the advanced marker and
// return. On failure the marker stays put and the next trigger retries.
type dayGate struct {
	mu   sync.Mutex
	last time.Time // zero until the first successful run
}

func (g *dayGate) run(day time.Time, fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.last.IsZero() && g.last.Equal(day) {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	g.last = day
	return nil
}
