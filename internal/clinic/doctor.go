// Package clinic answers free-text appointment questions against a fixed
// roster of doctors and their weekly hours.
package clinic

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRange is returned when an availability range is not "H:MM-H:MM".
var ErrMalformedRange = errors.New("clinic: malformed availability range")

// Doctor is one record of the clinic dataset. Records are never mutated
// after loading.
type Doctor struct {
	Name            string       `json:"name"`
	Specialization  string       `json:"specialization"`
	Availability    Availability `json:"availability"`
	ConsultationFee float64      `json:"consultation_fee"`
	Rating          float64      `json:"rating"`
}

// HourRange is a half-open range of whole hours, [Start, End).
type HourRange struct {
	Start int
	End   int
}

// ParseHourRange parses "9:00-12:00". Only the hour part of each bound is
// significant.
func ParseHourRange(s string) (HourRange, error) {
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return HourRange{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	start, err := parseBoundHour(startStr)
	if err != nil {
		return HourRange{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	end, err := parseBoundHour(endStr)
	if err != nil {
		return HourRange{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	return HourRange{Start: start, End: end}, nil
}

func parseBoundHour(s string) (int, error) {
	hourStr, _, _ := strings.Cut(strings.TrimSpace(s), ":")
	return strconv.Atoi(strings.TrimSpace(hourStr))
}

func (r HourRange) String() string {
	return fmt.Sprintf("%d:00-%d:00", r.Start, r.End)
}

// Availability maps a weekday to its ranges in dataset order.
type Availability map[time.Weekday][]HourRange

// calendarOrder lists weekdays Monday first.
var calendarOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Days returns every weekday present in the mapping, Monday first.
func (a Availability) Days() []string {
	days := make([]string, 0, len(a))
	for _, day := range calendarOrder {
		if _, ok := a[day]; ok {
			days = append(days, day.String())
		}
	}
	return days
}

// UnmarshalJSON accepts either a JSON object of weekday name to range
// strings or the same object serialized as a single-quoted string, e.g.
// "{'Monday': ['9:00-12:00']}".
func (a *Availability) UnmarshalJSON(data []byte) error {
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		data = []byte(strings.ReplaceAll(encoded, "'", `"`))
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("clinic: decode availability: %w", err)
	}

	out := make(Availability, len(raw))
	for name, ranges := range raw {
		day, ok := ParseWeekday(name)
		if !ok {
			return fmt.Errorf("clinic: unknown weekday %q in availability", name)
		}
		parsed := make([]HourRange, 0, len(ranges))
		for _, r := range ranges {
			hr, err := ParseHourRange(r)
			if err != nil {
				return err
			}
			parsed = append(parsed, hr)
		}
		out[day] = append(out[day], parsed...)
	}
	*a = out
	return nil
}

// MarshalJSON writes the object form with canonical weekday names.
func (a Availability) MarshalJSON() ([]byte, error) {
	raw := make(map[string][]string, len(a))
	for day, ranges := range a {
		strs := make([]string, 0, len(ranges))
		for _, r := range ranges {
			strs = append(strs, r.String())
		}
		raw[day.String()] = strs
	}
	return json.Marshal(raw)
}

// ParseWeekday resolves a full or three-letter weekday name, ignoring case.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0, false
	}
	for _, day := range calendarOrder {
		full := strings.ToLower(day.String())
		if name == full || name == full[:3] {
			return day, true
		}
	}
	return 0, false
}
