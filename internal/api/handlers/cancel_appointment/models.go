package cancel_appointment

import (
	"time"

	cancelAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/cancel_appointment"
)

// CancelledAppointmentResponse HTTP response model
type CancelledAppointmentResponse struct {
	ID          int64  `json:"id"`
	PatientID   int64  `json:"patientId"`
	DoctorID    int64  `json:"doctorId"`
	SlotDate    string `json:"slotDate"`
	SlotTime    string `json:"slotTime"`
	Cancelled   bool   `json:"cancelled"`
	CancelledBy string `json:"cancelledBy"`
	CancelledAt string `json:"cancelledAt"` // ISO 8601 format
	UpdatedAt   string `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelledAppointmentResponse {
	return &CancelledAppointmentResponse{
		ID:          resp.ID,
		PatientID:   resp.PatientID,
		DoctorID:    resp.DoctorID,
		SlotDate:    resp.SlotDate.String(),
		SlotTime:    resp.SlotTime.String(),
		Cancelled:   resp.Cancelled,
		CancelledBy: resp.CancelledBy,
		CancelledAt: resp.CancelledAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
