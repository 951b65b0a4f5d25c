package book_appointment

import (
	"time"

	bookAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// BookAppointmentRequest HTTP request model
// ID пациента не принимается в теле - берётся из токена
type BookAppointmentRequest struct {
	DoctorID int64  `json:"doctorId"`
	SlotDate string `json:"slotDate"` // "15_6_2024"
	SlotTime string `json:"slotTime"` // "10:30 AM"
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID               int64   `json:"id"`
	PatientID        int64   `json:"patientId"`
	DoctorID         int64   `json:"doctorId"`
	SlotDate         string  `json:"slotDate"`
	SlotTime         string  `json:"slotTime"`
	Amount           float64 `json:"amount"`
	Cancelled        bool    `json:"cancelled"`
	Payment          bool    `json:"payment"`
	IsCompleted      bool    `json:"isCompleted"`
	DoctorName       string  `json:"doctorName"`
	DoctorSpeciality string  `json:"doctorSpeciality"`
	PatientName      string  `json:"patientName"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest(patientID int64) *bookAppointment.Request {
	return &bookAppointment.Request{
		PatientID: patientID,
		DoctorID:  r.DoctorID,
		SlotDate:  types.DayKey(r.SlotDate),
		SlotTime:  types.TimeLabel(r.SlotTime),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:               resp.ID,
		PatientID:        resp.PatientID,
		DoctorID:         resp.DoctorID,
		SlotDate:         resp.SlotDate.String(),
		SlotTime:         resp.SlotTime.String(),
		Amount:           resp.Amount,
		Cancelled:        resp.Cancelled,
		Payment:          resp.Payment,
		IsCompleted:      resp.IsCompleted,
		DoctorName:       resp.DoctorName,
		DoctorSpeciality: resp.DoctorSpeciality,
		PatientName:      resp.PatientName,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
