package clinic

import "time"

func testDoctors() []Doctor {
	return []Doctor{
		{
			Name:            "Anita Rao",
			Specialization:  "Dentist",
			Availability:    Availability{time.Saturday: {{9, 13}}, time.Monday: {{10, 12}}},
			ConsultationFee: 500,
			Rating:          4.2,
		},
		{
			Name:            "Vikram Shah",
			Specialization:  "Cardiologist",
			Availability:    Availability{time.Tuesday: {{14, 16}, {9, 11}}},
			ConsultationFee: 1200,
			Rating:          4.9,
		},
		{
			Name:            "Meera Iyer",
			Specialization:  "Dermatologist",
			Availability:    Availability{time.Saturday: {{15, 17}}},
			ConsultationFee: 700,
			Rating:          4.5,
		},
		{
			Name:            "Rahul Verma",
			Specialization:  "Cardiologist",
			Availability:    Availability{time.Wednesday: {{9, 12}}},
			ConsultationFee: 900,
			Rating:          4.9,
		},
	}
}
