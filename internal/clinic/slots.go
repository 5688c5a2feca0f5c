package clinic

import (
	"fmt"
	"strings"
	"time"
)

// Slot is a one-hour window [Start, Start+1).
type Slot struct {
	Start int
}

func (s Slot) End() int { return s.Start + 1 }

func (s Slot) String() string {
	return fmt.Sprintf("%d:00-%d:00", s.Start, s.End())
}

// ExpandSlots splits each range into one-hour slots, keeping the ranges in
// the order given. The result is not sorted. Ranges with Start >= End
// contribute nothing.
func ExpandSlots(ranges []HourRange) []Slot {
	var slots []Slot
	for _, r := range ranges {
		for h := r.Start; h < r.End; h++ {
			slots = append(slots, Slot{Start: h})
		}
	}
	return slots
}

// JoinSlots renders slots as "9:00-10:00, 10:00-11:00".
func JoinSlots(slots []Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

type ResolutionKind int

const (
	// Generic: no weekday was asked for.
	Generic ResolutionKind = iota
	// DaySlots: weekday without hour, Slots lists the day.
	DaySlots
	// DayUnavailable: no slots on the weekday.
	DayUnavailable
	// ExactSlot: the requested hour starts a slot.
	ExactSlot
	// NearestSlot: Slot is the first later slot in dataset order.
	NearestSlot
	// HourUnavailable: nothing at or after the requested hour.
	HourUnavailable
)

func (k ResolutionKind) String() string {
	switch k {
	case Generic:
		return "generic"
	case DaySlots:
		return "day_slots"
	case DayUnavailable:
		return "day_unavailable"
	case ExactSlot:
		return "exact_slot"
	case NearestSlot:
		return "nearest_slot"
	case HourUnavailable:
		return "hour_unavailable"
	}
	return "unknown"
}

// Resolution is the outcome of checking one doctor's hours against a query.
type Resolution struct {
	Kind    ResolutionKind
	Weekday time.Weekday
	Slots   []Slot
	Slot    Slot
}

// Resolve checks availability for a weekday and optional hour. The
// "nearest" slot is the first slot after the requested hour in dataset
// order, which is not necessarily the numerically closest one.
func Resolve(availability Availability, day ResolvedDay, hour RequestedHour) Resolution {
	weekday, ok := day.Get()
	if !ok {
		return Resolution{Kind: Generic}
	}

	res := Resolution{Weekday: weekday, Slots: ExpandSlots(availability[weekday])}
	if len(res.Slots) == 0 {
		res.Kind = DayUnavailable
		return res
	}

	h, ok := hour.Get()
	if !ok {
		res.Kind = DaySlots
		return res
	}

	for _, s := range res.Slots {
		if s.Start == h {
			res.Kind = ExactSlot
			res.Slot = s
			return res
		}
	}
	for _, s := range res.Slots {
		if s.Start > h {
			res.Kind = NearestSlot
			res.Slot = s
			return res
		}
	}
	res.Kind = HourUnavailable
	return res
}
