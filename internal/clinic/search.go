package clinic

import (
	"fmt"
	"sort"
	"strings"
)

// Match keeps the doctors that satisfy every given field of f, in dataset
// order. A doctor without hours on the requested weekday is excluded.
func Match(doctors []Doctor, f Filter) []Doctor {
	name := strings.ToLower(f.DoctorName)
	specialization := strings.ToLower(f.Specialization)
	day, hasDay := f.Day().Get()

	matched := make([]Doctor, 0, len(doctors))
	for _, d := range doctors {
		if name != "" && !strings.Contains(strings.ToLower(d.Name), name) {
			continue
		}
		if specialization != "" && strings.ToLower(d.Specialization) != specialization {
			continue
		}
		if hasDay {
			if _, ok := d.Availability[day]; !ok {
				continue
			}
		}
		matched = append(matched, d)
	}
	return matched
}

// Option is one doctor in a search result with a ready-to-read summary.
type Option struct {
	Doctor          string     `json:"doctor"`
	Specialization  string     `json:"specialization"`
	AvailableDays   []string   `json:"available_days"`
	Message         string     `json:"message"`
	ConsultationFee float64    `json:"consultation_fee"`
	Rating          float64    `json:"rating"`
	Resolution      Resolution `json:"-"`
}

// Search matches doctors against f and resolves each match's hours. The
// result is ordered by rating, highest first; ties keep dataset order.
func Search(doctors []Doctor, f Filter) []Option {
	matched := Match(doctors, f)
	day := f.Day()
	hour := f.Hour()

	options := make([]Option, 0, len(matched))
	for _, d := range matched {
		res := Resolve(d.Availability, day, hour)
		options = append(options, Option{
			Doctor:          d.Name,
			Specialization:  d.Specialization,
			AvailableDays:   d.Availability.Days(),
			Message:         describe(d, f, res),
			ConsultationFee: d.ConsultationFee,
			Rating:          d.Rating,
			Resolution:      res,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Rating > options[j].Rating
	})
	return options
}

func describe(d Doctor, f Filter, res Resolution) string {
	day := res.Weekday.String()
	requested := strings.TrimSpace(f.Time)

	switch res.Kind {
	case ExactSlot:
		return fmt.Sprintf("✅ Dr. %s is available at %s on %s, %s. Would you like to book this slot?", d.Name, res.Slot, day, f.Date)
	case NearestSlot:
		return fmt.Sprintf("❌ Dr. %s is **not available** at %s on %s. Nearest available slot: **%s**.", d.Name, requested, day, res.Slot)
	case HourUnavailable:
		return fmt.Sprintf("❌ No available slots at %s on %s.", requested, day)
	case DaySlots:
		return fmt.Sprintf("✅ Dr. %s is available on %s, %s at the following times: **%s**.", d.Name, day, f.Date, JoinSlots(res.Slots))
	case DayUnavailable:
		return fmt.Sprintf("❌ No available slots on %s.", day)
	default:
		return fmt.Sprintf("✅ Dr. %s is available. Consultation fee: **₹%.2f**.", d.Name, d.ConsultationFee)
	}
}

// Summaries returns the message of each option in order.
func Summaries(options []Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Message
	}
	return out
}
