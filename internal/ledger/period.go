package ledger

import "time"

// Preset names a relative accounting period.
type Preset string

const (
	PresetCurrentMonth   Preset = "current-month"
	PresetPreviousMonth  Preset = "previous-month"
	PresetCurrentQuarter Preset = "current-quarter"
	PresetCurrentYear    Preset = "current-year"
)

// Period is a resolved [From, To] range. To is inclusive through end of day
// so same-day documents are never excluded by their time component.
type Period struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls inside the period, bounds included.
func (p Period) Contains(d time.Time) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// ResolvePeriod turns a preset into concrete bounds relative to ref.
// Unknown presets resolve like PresetCurrentMonth.
func ResolvePeriod(preset Preset, ref time.Time) Period {
	switch preset {
	case PresetPreviousMonth:
		prev := time.Date(ref.Year(), ref.Month()-1, 1, 0, 0, 0, 0, ref.Location())
		return monthPeriod(prev)
	case PresetCurrentQuarter:
		qStart := time.Month((int(ref.Month())-1)/3*3 + 1)
		from := time.Date(ref.Year(), qStart, 1, 0, 0, 0, 0, ref.Location())
		return Period{From: from, To: endOfDay(from.AddDate(0, 3, -1))}
	case PresetCurrentYear:
		from := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location())
		to := time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, ref.Location())
		return Period{From: from, To: endOfDay(to)}
	case PresetCurrentMonth:
		return monthPeriod(ref)
	default:
		return monthPeriod(ref)
	}
}

// ExplicitPeriod builds a period from caller-supplied bounds, normalising the
// upper bound to end of day.
func ExplicitPeriod(from, to time.Time) Period {
	return Period{
		From: time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()),
		To:   endOfDay(to),
	}
}

func monthPeriod(ref time.Time) Period {
	from := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return Period{From: from, To: endOfDay(from.AddDate(0, 1, -1))}
}

func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), d.Location())
}
