package domain

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Appointment represents one patient-doctor reservation
type Appointment struct {
	ID        int64
	PatientID int64
	DoctorID  int64

	SlotDate types.DayKey
	SlotTime types.TimeLabel

	// Amount стоимость приёма, зафиксированная в момент бронирования.
	// Намеренно не связана с текущим fees врача - прошлые счета не
	// должны меняться задним числом.
	Amount float64

	Cancelled   bool
	CancelledBy *string
	CancelledAt *time.Time

	Payment     bool
	IsCompleted bool

	// Denormalized snapshots for history
	DoctorName       string
	DoctorSpeciality string
	DoctorDegree     string
	DoctorFees       float64
	PatientName      string
	PatientEmail     string
	PatientPhone     *string
	PatientDOB       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return !a.Cancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return !a.Cancelled
}

// CanBeCompleted returns true if the doctor can mark the visit done
func (a *Appointment) CanBeCompleted() bool {
	return !a.Cancelled && !a.IsCompleted
}

// DoctorAppointmentsFilter фильтр для получения записей врача
type DoctorAppointmentsFilter struct {
	DoctorID        int64         // Обязательный параметр
	SlotDate        *types.DayKey // Фильтр по дню (опционально)
	OnlyCompleted   bool          // Только завершённые приёмы
	IncludeInactive bool          // Включать ли отменённые записи
}

// DoctorStats агрегаты для дашборда врача
type DoctorStats struct {
	Earnings          float64 // Сумма по оплаченным и завершённым приёмам
	TotalAppointments int
	UniquePatients    int
}
