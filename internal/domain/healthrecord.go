package domain

import "time"

// HealthRecord запись электронной медкарты, привязанная к приёму
type HealthRecord struct {
	ID            int64
	PatientID     int64
	DoctorID      int64
	AppointmentID int64

	Diagnosis    string
	Prescription string
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
