package book_appointment

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Request модель запроса на бронирование слота.
// PatientID приходит из auth middleware (проверенный актор), а не из тела
// запроса.
type Request struct {
	PatientID int64           // ID пациента (проверенный актор)
	DoctorID  int64           // ID врача
	SlotDate  types.DayKey    // Ключ дня, например "15_6_2024"
	SlotTime  types.TimeLabel // Метка слота, например "10:30 AM"
}

// Response модель ответа с созданной записью
type Response struct {
	ID        int64
	PatientID int64
	DoctorID  int64
	SlotDate  types.DayKey
	SlotTime  types.TimeLabel

	// Amount стоимость, зафиксированная в момент бронирования
	Amount float64

	Cancelled   bool
	Payment     bool
	IsCompleted bool

	// Денормализованные снапшоты
	DoctorName       string
	DoctorSpeciality string
	PatientName      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
