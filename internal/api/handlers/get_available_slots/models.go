package get_available_slots

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/HMS-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse один свободный слот
type SlotResponse struct {
	DateTime string `json:"datetime"` // ISO 8601, полное время начала
	Label    string `json:"label"`    // "10:30 AM"
}

// DaySlotsResponse слоты одного дня горизонта
type DaySlotsResponse struct {
	DayKey string         `json:"dayKey"` // "15_6_2024"
	Date   string         `json:"date"`   // "2024-06-15"
	Slots  []SlotResponse `json:"slots"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	DoctorID int64              `json:"doctorId"`
	Days     []DaySlotsResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	days := make([]DaySlotsResponse, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]SlotResponse, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = SlotResponse{
				DateTime: slot.Time.Format(time.RFC3339),
				Label:    slot.Label.String(),
			}
		}
		days[i] = DaySlotsResponse{
			DayKey: day.DayKey.String(),
			Date:   day.Date.Format(domain.DateFormat),
			Slots:  slots,
		}
	}

	return &AvailableSlotsResponse{
		DoctorID: resp.DoctorID,
		Days:     days,
	}
}
