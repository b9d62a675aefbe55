// Package history provides date paging and calendar grid generation for
// report lookups. All comparisons are at day granularity and no result
// may land after today.
package history

import (
	"time"
)

// DayFormat is the day-granularity date layout used across the engine.
const DayFormat = "2006-01-02"

// Clock supplies the current time. Injected so the future-date guard is
// testable against a fixed "today".
type Clock func() time.Time

// Navigator pages dates and builds calendar grids against a clock.
type Navigator struct {
	now Clock
}

// NewNavigator creates a navigator. A nil clock defaults to time.Now.
func NewNavigator(now Clock) *Navigator {
	if now == nil {
		now = time.Now
	}
	return &Navigator{now: now}
}

// PageDate shifts current by deltaDays. Any result later than today
// returns current unchanged.
func (n *Navigator) PageDate(current time.Time, deltaDays int) time.Time {
	candidate := truncateDay(current).AddDate(0, 0, deltaDays)
	if dayKey(candidate) > dayKey(n.today()) {
		return current
	}
	return candidate
}

// CanPageForward reports whether forward navigation from current is
// allowed. False exactly when current is today or later.
func (n *Navigator) CanPageForward(current time.Time) bool {
	return dayKey(current) < dayKey(n.today())
}

// ChangeMonth shifts the month component only, preserving day-of-month.
// Native rollover applies (Jan 31 + 1 month lands in March).
func (n *Navigator) ChangeMonth(month time.Time, delta int) time.Time {
	return month.AddDate(0, delta, 0)
}

// DayCell is a single calendar grid cell. Empty cells (Day == 0) pad the
// grid up to the first-of-month weekday offset.
type DayCell struct {
	Day        int
	Date       time.Time
	IsToday    bool
	IsSelected bool
	IsFuture   bool
	Selectable bool
}

// CalendarGrid builds one month's grid: leading empty cells equal to the
// weekday of the 1st (Sunday = 0), then one cell per day. Future cells
// are present but not selectable.
func (n *Navigator) CalendarGrid(month time.Time, selected time.Time) []DayCell {
	today := n.today()
	selectedDay := truncateDay(selected)

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]DayCell, 0, int(first.Weekday())+daysInMonth)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, DayCell{})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())
		// Calendar dates, the clock, and the selection may carry
		// different locations; compare days, not instants.
		isFuture := dayKey(date) > dayKey(today)
		cells = append(cells, DayCell{
			Day:        day,
			Date:       date,
			IsToday:    dayKey(date) == dayKey(today),
			IsSelected: dayKey(date) == dayKey(selectedDay),
			IsFuture:   isFuture,
			Selectable: !isFuture,
		})
	}

	return cells
}

func (n *Navigator) today() time.Time {
	return truncateDay(n.now())
}

// dayKey is the day-granularity comparison key; lexicographic order on
// DayFormat matches chronological order.
func dayKey(t time.Time) string {
	return t.Format(DayFormat)
}

// truncateDay strips the time-of-day component in the value's location.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
