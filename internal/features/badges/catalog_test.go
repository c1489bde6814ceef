package badges

import (
	"testing"
	"time"

	"pipstracker/internal/common"
	"pipstracker/internal/features/results"
)

func TestTimeBadge_Easy(t *testing.T) {
	b, ok := TimeBadge(results.Easy, 14)
	if !ok || b.ID != ManosAgiles {
		t.Error("should earn Manos ágiles with Easy in 14s")
	}
}

func TestTimeBadge_EasyAtThreshold(t *testing.T) {
	if _, ok := TimeBadge(results.Easy, 15); ok {
		t.Error("threshold is strict: Easy in exactly 15s should not earn")
	}
}

func TestTimeBadge_Medium(t *testing.T) {
	b, ok := TimeBadge(results.Medium, 44)
	if !ok || b.ID != ManosRapidas {
		t.Error("should earn Manos rápidas with Medium in 44s")
	}
	if _, ok := TimeBadge(results.Medium, 45); ok {
		t.Error("should not earn Manos rápidas with Medium in 45s")
	}
}

func TestTimeBadge_Hard(t *testing.T) {
	b, ok := TimeBadge(results.Hard, 59)
	if !ok || b.ID != ManosTurbo {
		t.Error("should earn Manos turbo with Hard in 59s")
	}
	if _, ok := TimeBadge(results.Hard, 60); ok {
		t.Error("should not earn Manos turbo with Hard in 60s")
	}
}

func TestMilestoneBadge_ExactValues(t *testing.T) {
	want := map[int]ID{5: RachaCorta, 10: RachaMedia, 30: RachaLarga, 50: RachaExtrema}
	for streak, id := range want {
		b, ok := MilestoneBadge(streak)
		if !ok || b.ID != id {
			t.Errorf("streak %d should earn %s", streak, id)
		}
	}
}

func TestMilestoneBadge_ExactMatchOnly(t *testing.T) {
	// Jumping past a threshold never awards it.
	for _, streak := range []int{0, 1, 4, 6, 11, 29, 31, 49, 51, 100} {
		if _, ok := MilestoneBadge(streak); ok {
			t.Errorf("streak %d should earn nothing", streak)
		}
	}
}

func dayResults(times ...[2]int) []results.Result {
	diffs := results.Difficulties
	out := make([]results.Result, 0, len(times))
	for i, mm := range times {
		out = append(out, results.Result{Difficulty: diffs[i], Minutes: mm[0], Seconds: mm[1]})
	}
	return out
}

func TestComboQualifies(t *testing.T) {
	day := dayResults([2]int{0, 10}, [2]int{0, 30}, [2]int{0, 49})
	if !ComboQualifies(day) {
		t.Error("all three under 50s should qualify for Speedrun")
	}
}

func TestComboQualifies_OneTooSlow(t *testing.T) {
	day := dayResults([2]int{0, 10}, [2]int{0, 30}, [2]int{0, 50})
	if ComboQualifies(day) {
		t.Error("a 50s result should disqualify Speedrun")
	}
}

func TestComboQualifies_MinutesDisqualify(t *testing.T) {
	// 1:10 is under 50+60 seconds total but has nonzero minutes.
	day := dayResults([2]int{0, 10}, [2]int{1, 10}, [2]int{0, 20})
	if ComboQualifies(day) {
		t.Error("nonzero minutes should disqualify Speedrun")
	}
}

func TestComboQualifies_IncompleteDay(t *testing.T) {
	day := dayResults([2]int{0, 10}, [2]int{0, 20})
	if ComboQualifies(day) {
		t.Error("two results should never qualify for Speedrun")
	}
}

func TestPrimeQualifies(t *testing.T) {
	if !PrimeQualifies([]int{59, 40, 30, 55, 10}) {
		t.Error("five Hard days under 60s should qualify for Prime")
	}
}

func TestPrimeQualifies_MissingDay(t *testing.T) {
	if PrimeQualifies([]int{59, 40, 30, 55}) {
		t.Error("four days should not qualify for Prime")
	}
}

func TestPrimeQualifies_SlowDay(t *testing.T) {
	if PrimeQualifies([]int{59, 40, 60, 55, 10}) {
		t.Error("a 60s day should disqualify Prime")
	}
}

func TestEarlyBird(t *testing.T) {
	loc := common.LoadZone("America/Santiago")
	at := time.Date(2025, 7, 1, 0, 4, 59, 0, loc)
	if !EarlyBird(at, loc) {
		t.Error("00:04:59 should be early bird")
	}
}

func TestEarlyBird_AfterWindow(t *testing.T) {
	loc := common.LoadZone("America/Santiago")
	at := time.Date(2025, 7, 1, 0, 5, 0, 0, loc)
	if EarlyBird(at, loc) {
		t.Error("00:05:00 should not be early bird")
	}
}

func TestNextStreak_Continues(t *testing.T) {
	loc := common.LoadZone("America/Santiago")
	today := time.Date(2025, 7, 10, 0, 0, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)
	if got := NextStreak(&yesterday, today, 4, loc); got != 5 {
		t.Errorf("streak = %d, want 5", got)
	}
}

func TestNextStreak_StoredDateContinues(t *testing.T) {
	// last_played comes back from a DATE column as a UTC midnight; it must
	// still read as yesterday in the reference zone.
	loc := common.LoadZone("America/Santiago")
	today := time.Date(2025, 7, 10, 0, 0, 0, 0, loc)
	stored := time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC)
	if got := NextStreak(&stored, today, 4, loc); got != 5 {
		t.Errorf("streak with stored last_played = %d, want 5", got)
	}
}

func TestNextStreak_GapResets(t *testing.T) {
	loc := common.LoadZone("America/Santiago")
	today := time.Date(2025, 7, 10, 0, 0, 0, 0, loc)
	twoDaysAgo := today.AddDate(0, 0, -2)
	if got := NextStreak(&twoDaysAgo, today, 9, loc); got != 1 {
		t.Errorf("streak after a gap = %d, want 1", got)
	}
}

func TestNextStreak_FirstCompletion(t *testing.T) {
	loc := common.LoadZone("America/Santiago")
	today := time.Date(2025, 7, 10, 0, 0, 0, 0, loc)
	if got := NextStreak(nil, today, 0, loc); got != 1 {
		t.Errorf("first completion streak = %d, want 1", got)
	}
}

func TestCatalog_CoversEveryRule(t *testing.T) {
	for _, rule := range timeRules {
		if _, ok := Catalog[rule.id]; !ok {
			t.Errorf("time rule badge %s missing from catalog", rule.id)
		}
	}
	for _, id := range milestones {
		if _, ok := Catalog[id]; !ok {
			t.Errorf("milestone badge %s missing from catalog", id)
		}
	}
}
