package entity

import "time"

// Horizon is the ordered sequence of weekday dates a provider is being
// scheduled over. It is produced by internal/horizon and borrowed
// read-only by every downstream stage.
type Horizon struct {
	Days []time.Time // ordered, Mon-Fri only, index 0..len-1

	dateToIndex map[string]int
}

// ISODate formats a time.Time as the "YYYY-MM-DD" string used
// throughout the request/response payloads.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// NewHorizon builds a Horizon from an ordered list of weekday dates and
// indexes them by their ISO date string for O(1) lookups.
func NewHorizon(days []time.Time) *Horizon {
	h := &Horizon{
		Days:        days,
		dateToIndex: make(map[string]int, len(days)),
	}
	for i, d := range days {
		h.dateToIndex[ISODate(d)] = i
	}
	return h
}

// Len returns the number of horizon days (D in spec notation).
func (h *Horizon) Len() int { return len(h.Days) }

// IndexOf returns the day index for an ISO date string, if it falls
// within the horizon.
func (h *Horizon) IndexOf(isoDate string) (int, bool) {
	i, ok := h.dateToIndex[isoDate]
	return i, ok
}

// DateAt returns the ISO date string for a horizon day index.
func (h *Horizon) DateAt(dayIdx int) string {
	if dayIdx < 0 || dayIdx >= len(h.Days) {
		return ""
	}
	return ISODate(h.Days[dayIdx])
}

// Weekday returns the weekday of a horizon day index.
func (h *Horizon) Weekday(dayIdx int) time.Weekday {
	return h.Days[dayIdx].Weekday()
}
