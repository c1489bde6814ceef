package reconcile

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestGate_RunsOncePerDay(t *testing.T) {
	var g dayGate
	runs := 0
	for i := 0; i < 5; i++ {
		if err := g.run(day(1), func() error { runs++; return nil }); err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	if runs != 1 {
		t.Errorf("pass ran %d times for one day, want 1", runs)
	}
}

func TestGate_RunsAgainOnNewDay(t *testing.T) {
	var g dayGate
	runs := 0
	g.run(day(1), func() error { runs++; return nil })
	g.run(day(2), func() error { runs++; return nil })
	if runs != 2 {
		t.Errorf("pass ran %d times across two days, want 2", runs)
	}
}

func TestGate_FailureRetries(t *testing.T) {
	var g dayGate
	runs := 0
	fail := errors.New("db down")

	if err := g.run(day(1), func() error { runs++; return fail }); !errors.Is(err, fail) {
		t.Fatalf("expected pass error, got %v", err)
	}
	// Marker must not have advanced: the same day triggers again.
	if err := g.run(day(1), func() error { runs++; return nil }); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if runs != 2 {
		t.Errorf("pass ran %d times, want 2 (failure then retry)", runs)
	}
}

func TestGate_ConcurrentTriggersRunOnce(t *testing.T) {
	var g dayGate
	var runs atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.run(day(1), func() error {
				runs.Add(1)
				time.Sleep(time.Millisecond)
				return nil
			})
		}()
	}
	wg.Wait()

	if got := runs.Load(); got != 1 {
		t.Errorf("pass ran %d times under concurrent triggers, want 1", got)
	}
}
