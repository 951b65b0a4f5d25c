package add_health_record

// AddHealthRecordRequest HTTP request model
type AddHealthRecordRequest struct {
	AppointmentID int64   `json:"appointmentId"`
	Diagnosis     string  `json:"diagnosis"`
	Prescription  string  `json:"prescription"`
	Notes         *string `json:"notes,omitempty"`
}
