// Package badges holds the static badge catalog, the rules that decide
// when each badge is earned, and the evaluator that runs those rules on
// every submission. The catalog is seeded into the database at deploy and
// never mutated at runtime; awarding writes only user_badges rows.
package badges

import (
	"time"

	"pipstracker/internal/common"
	"pipstracker/internal/features/results"
)

// ID is the stable catalog key of a badge.
type ID string

const (
	RachaCorta   ID = "racha_corta"
	RachaMedia   ID = "racha_media"
	RachaLarga   ID = "racha_larga"
	RachaExtrema ID = "racha_extrema"
	ManosAgiles  ID = "manos_agiles"
	ManosRapidas ID = "manos_rapidas"
	ManosTurbo   ID = "manos_turbo"
	Speedrun     ID = "speedrun"
	Prime        ID = "prime"
	Precoz       ID = "precoz"
)

// Badge is one catalog entry. Category is a display tier (1-4); the
// evaluation rule itself lives in the functions below, keyed by ID.
type Badge struct {
	ID          ID
	Name        string
	Category    int
	Image       string
	Description string
}

// Catalog is the full badge registry. Names and descriptions match the
// seeded badges table; lookups by the evaluator go through badge names.
var Catalog = map[ID]Badge{
	RachaCorta:   {ID: RachaCorta, Name: "Racha corta", Category: 1, Image: "racha_facil", Description: "Resuelve todos los Pips 5 días seguidos."},
	RachaMedia:   {ID: RachaMedia, Name: "Racha media", Category: 2, Image: "racha_media", Description: "Resuelve todos los Pips 10 días seguidos."},
	RachaLarga:   {ID: RachaLarga, Name: "Racha larga", Category: 3, Image: "racha_dificil", Description: "Resuelve todos los Pips 30 días seguidos."},
	RachaExtrema: {ID: RachaExtrema, Name: "Racha extrema", Category: 4, Image: "racha_extrema", Description: "Resuelve todos los Pips 50 días seguidos."},
	ManosAgiles:  {ID: ManosAgiles, Name: "Manos ágiles", Category: 1, Image: "fuego_facil", Description: "Completa el Pips easy en menos de 15 segundos."},
	ManosRapidas: {ID: ManosRapidas, Name: "Manos rápidas", Category: 2, Image: "fuego_medio", Description: "Completa el Pips medium en menos de 45 segundos."},
	ManosTurbo:   {ID: ManosTurbo, Name: "Manos turbo", Category: 3, Image: "fuego_dificil", Description: "Completa el Pips hard en menos de 1 minuto."},
	Speedrun:     {ID: Speedrun, Name: "Speedrun", Category: 4, Image: "fuego_extremo", Description: "Resuelve los Pips en menos de 50 segundos cada uno, en un mismo día."},
	Prime:        {ID: Prime, Name: "Prime", Category: 4, Image: "racha_tiempo_extrema", Description: "Haz el Pips hard en menos de 1 minuto, por 5 días seguidos."},
	Precoz:       {ID: Precoz, Name: "Precoz", Category: 2, Image: "medianoche_media", Description: "Completa todos los Pips en los primeros 5 minutos del día."},
}

// Per-result time thresholds, in total seconds, strict less-than.
// Fixed at deploy, never configurable at runtime.
var timeRules = map[results.Difficulty]struct {
	id    ID
	limit int
}{
	results.Easy:   {ManosAgiles, 15},
	results.Medium: {ManosRapidas, 45},
	results.Hard:   {ManosTurbo, 60},
}

const (
	// comboLimitSeconds: every result of the day must be 0 minutes and
	// under this many seconds for the Speedrun badge.
	comboLimitSeconds = 50
	// primeStreakDays / primeLimitSeconds: Hard under the limit on this
	// many consecutive days earns Prime.
	primeStreakDays   = 5
	primeLimitSeconds = 60
	// earlyWindow: a full completion within this span after local
	// midnight earns Precoz.
	earlyWindow = 5 * time.Minute
)

// milestones maps an exact streak value to its badge. Exact match only:
// a user who jumps past a threshold (backfill reset followed by a long
// run) never receives the skipped badge.
var milestones = map[int]ID{
	5:  RachaCorta,
	10: RachaMedia,
	30: RachaLarga,
	50: RachaExtrema,
}

// TimeBadge returns the per-result badge for a difficulty finished in
// totalSeconds, if the time beats the threshold.
func TimeBadge(d results.Difficulty, totalSeconds int) (Badge, bool) {
	rule, ok := timeRules[d]
	if !ok || totalSeconds >= rule.limit {
		return Badge{}, false
	}
	return Catalog[rule.id], true
}

// MilestoneBadge returns the streak badge when streak lands exactly on a
// milestone.
func MilestoneBadge(streak int) (Badge, bool) {
	id, ok := milestones[streak]
	if !ok {
		return Badge{}, false
	}
	return Catalog[id], true
}

// ComboQualifies reports whether a full day of results earns Speedrun:
// every result at 0 minutes and under 50 seconds.
func ComboQualifies(day []results.Result) bool {
	if len(day) != len(results.Difficulties) {
		return false
	}
	for _, r := range day {
		if r.Minutes != 0 || r.Seconds >= comboLimitSeconds {
			return false
		}
	}
	return true
}

// PrimeQualifies reports whether the Hard totals of the trailing
// primeStreakDays-day window earn Prime: one result per day, all under
// the limit.
func PrimeQualifies(totals []int) bool {
	if len(totals) != primeStreakDays {
		return false
	}
	for _, t := range totals {
		if t >= primeLimitSeconds {
			return false
		}
	}
	return true
}

// EarlyBird reports whether now falls within the first five minutes after
// midnight in loc.
func EarlyBird(now time.Time, loc *time.Location) bool {
	now = now.In(loc)
	return now.Sub(common.DayOf(now, loc)) < earlyWindow
}

// NextStreak computes the streak after a full-day completion on today:
// continue when the previous completion was exactly yesterday, otherwise
// start over at 1.
func NextStreak(lastPlayed *time.Time, today time.Time, current int, loc *time.Location) int {
	if lastPlayed != nil && common.SameDay(*lastPlayed, today.AddDate(0, 0, -1), loc) {
		return current + 1
	}
	return 1
}
