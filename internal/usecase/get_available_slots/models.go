package get_available_slots

import (
	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	DoctorID int64 // ID врача
}

// Response модель ответа: семь дней горизонта начиная с сегодняшнего.
// День без свободных слотов представлен пустым списком, но сохраняет
// свою позицию - клиент показывает его как "нет слотов".
type Response struct {
	DoctorID int64
	Days     []domain.DaySlots
}
