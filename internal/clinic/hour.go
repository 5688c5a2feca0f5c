package clinic

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var requestedTimeRE = regexp.MustCompile(`^(\d{1,2}):\d{2}$`)

// RequestedHour is the hour a user asked about, or nothing.
type RequestedHour struct {
	hour    int
	present bool
}

// NoHour means no usable time was requested.
var NoHour = RequestedHour{}

func HourOf(h int) RequestedHour {
	return RequestedHour{hour: h, present: true}
}

// Get returns the hour and whether one was requested.
func (h RequestedHour) Get() (int, bool) {
	return h.hour, h.present
}

// ParseRequestedHour accepts "H:MM" or "HH:MM" and keeps the hour. Anything
// else is NoHour rather than an error.
func ParseRequestedHour(s string) RequestedHour {
	m := requestedTimeRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return NoHour
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return NoHour
	}
	return HourOf(h)
}

// ResolvedDay is the weekday a query is about, or nothing.
type ResolvedDay struct {
	day     time.Weekday
	present bool
}

// NoDay means the query is day-agnostic.
var NoDay = ResolvedDay{}

func DayOf(d time.Weekday) ResolvedDay {
	return ResolvedDay{day: d, present: true}
}

func (d ResolvedDay) Get() (time.Weekday, bool) {
	return d.day, d.present
}

// ParseDate resolves a YYYY-MM-DD calendar date to its weekday.
func ParseDate(s string) ResolvedDay {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return NoDay
	}
	return DayOf(t.Weekday())
}
