package clinic

import (
	"github.com/wolfman30/chatlookup/internal/llm"
)

// Filter is the structured query extracted from a user message. Empty
// strings mean the field was not given.
type Filter struct {
	DoctorName     string `json:"doctor_name,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Date           string `json:"date,omitempty"`
	Time           string `json:"time,omitempty"`
}

// Day derives the weekday from Date.
func (f Filter) Day() ResolvedDay {
	if f.Date == "" {
		return NoDay
	}
	return ParseDate(f.Date)
}

// Hour derives the requested hour from Time.
func (f Filter) Hour() RequestedHour {
	if f.Time == "" {
		return NoHour
	}
	return ParseRequestedHour(f.Time)
}

func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// filterFromFields reads the extractor's JSON object. Wrong-typed values
// are treated as absent.
func filterFromFields(fields llm.Fields) Filter {
	var f Filter
	f.DoctorName, _ = fields.String("doctor_name")
	f.Specialization, _ = fields.String("specialization")
	f.Date, _ = fields.String("date")
	f.Time, _ = fields.String("time")
	return f
}

const extractPromptTemplate = `Extract structured information from the user query:
Query: "%s"
Return a JSON object:
{
  "doctor_name": "Doctor's Name" or null,
  "specialization": "Specialization" or null,
  "date": "YYYY-MM-DD" or null,
  "time": "HH:MM" or null
}
Return only the JSON object.`
