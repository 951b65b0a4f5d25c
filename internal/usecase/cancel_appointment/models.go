package cancel_appointment

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Request модель запроса на отмену записи.
// ActorID и ActorRole приходят из auth middleware.
type Request struct {
	AppointmentID int64  // ID отменяемой записи
	ActorID       int64  // ID проверенного актора
	ActorRole     string // Роль актора: patient / doctor / staff
}

// Response модель ответа с отменённой записью
type Response struct {
	ID          int64
	PatientID   int64
	DoctorID    int64
	SlotDate    types.DayKey
	SlotTime    types.TimeLabel
	Cancelled   bool
	CancelledBy string
	CancelledAt time.Time
	UpdatedAt   time.Time
}
