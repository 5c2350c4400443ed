// Package schedule computes the offerable time slots for a booking widget.
package schedule

import "time"

// Rules maps a day classification to its bookable hours. Weekends carry a
// broader table than weekdays; both are configuration, not code forks.
type Rules struct {
	WeekdayHours []int
	WeekendHours []int
}

// DefaultRules returns the canonical hour tables: weekends offer a spread of
// morning and afternoon hours, weekdays a single late slot.
func DefaultRules() Rules {
	return Rules{
		WeekdayHours: []int{22},
		WeekendHours: []int{9, 10, 11, 12, 14, 15, 16, 17},
	}
}

// HoursFor returns the rule table for the given weekday.
func (r Rules) HoursFor(day time.Weekday) []int {
	if day == time.Saturday || day == time.Sunday {
		return r.WeekendHours
	}
	return r.WeekdayHours
}

// TimeSlot is an offerable future start time. Immutable once generated.
type TimeSlot struct {
	Start time.Time `json:"start"`
	Label string    `json:"label"` // "02:00 PM"
}

// DayGroup collects a calendar day's slots under a human label.
type DayGroup struct {
	Date  string     `json:"date"`  // "2006-01-02"
	Label string     `json:"label"` // "Monday, January 2"
	Slots []TimeSlot `json:"slots"`
}

// Generator produces grouped upcoming slots for a fixed horizon.
type Generator struct {
	rules   Rules
	horizon int
	loc     *time.Location
}

// NewGenerator builds a generator. A nil location defaults to time.Local;
// a non-positive horizon defaults to 7 days.
func NewGenerator(rules Rules, horizonDays int, loc *time.Location) *Generator {
	if loc == nil {
		loc = time.Local
	}
	if horizonDays <= 0 {
		horizonDays = 7
	}
	return &Generator{rules: rules, horizon: horizonDays, loc: loc}
}

// Upcoming returns one group per calendar day in the horizon, holding the
// rule-table hours that are strictly after now. Days with no qualifying hours
// are omitted entirely. Output is deterministic for a fixed now and rules.
func (g *Generator) Upcoming(now time.Time) []DayGroup {
	now = now.In(g.loc)
	groups := make([]DayGroup, 0, g.horizon)

	for i := 0; i < g.horizon; i++ {
		day := now.AddDate(0, 0, i)
		hours := g.rules.HoursFor(day.Weekday())

		var slots []TimeSlot
		for _, hour := range hours {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, g.loc)
			if !start.After(now) {
				continue
			}
			slots = append(slots, TimeSlot{
				Start: start,
				Label: start.Format("03:04 PM"),
			})
		}
		if len(slots) == 0 {
			continue
		}

		groups = append(groups, DayGroup{
			Date:  day.Format("2006-01-02"),
			Label: day.Format("Monday, January 2"),
			Slots: slots,
		})
	}

	return groups
}

// Resolve returns the offered slot whose start matches the given instant.
// The booking flow uses it to reject stale or fabricated slots.
func (g *Generator) Resolve(now, start time.Time) (TimeSlot, bool) {
	for _, group := range g.Upcoming(now) {
		for _, slot := range group.Slots {
			if slot.Start.Equal(start) {
				return slot, true
			}
		}
	}
	return TimeSlot{}, false
}

// Contains reports whether start matches a slot the generator would offer for
// the given now.
func (g *Generator) Contains(now, start time.Time) bool {
	_, ok := g.Resolve(now, start)
	return ok
}
