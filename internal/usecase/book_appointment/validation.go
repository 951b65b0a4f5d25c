package book_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса.
// Некорректный ключ дня или метка времени - ошибка валидации,
// а не конфликт бронирования.
func validateRequest(req *Request) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.SlotDate.IsZero() {
		return fmt.Errorf("%w: slotDate is required", ErrInvalidInput)
	}

	if err := req.SlotDate.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotDate: %v", ErrInvalidInput, err)
	}

	if req.SlotTime.IsZero() {
		return fmt.Errorf("%w: slotTime is required", ErrInvalidInput)
	}

	if err := req.SlotTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid slotTime: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateSlotSchedule проверяет, что слот попадает в расписание клиники:
// выровнен по получасовой сетке, не раньше открытия и строго раньше
// закрытия, и ещё не прошёл относительно текущего времени.
func validateSlotSchedule(day types.DayKey, label types.TimeLabel, now time.Time) error {
	minutes, err := label.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if minutes%domain.SlotStepMinutes != 0 {
		return fmt.Errorf("%w: slot must start on a %d-minute boundary", ErrInvalidTimeSlot, domain.SlotStepMinutes)
	}

	if minutes < domain.OpeningHour*60 || minutes >= domain.ClosingHour*60 {
		return fmt.Errorf("%w: clinic is open %02d:00-%02d:00", ErrInvalidTimeSlot, domain.OpeningHour, domain.ClosingHour)
	}

	dayStart, err := day.Time(now.Location())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slotTime := dayStart.Add(time.Duration(minutes) * time.Minute)
	if !slotTime.After(now) {
		return ErrSlotInPast
	}

	return nil
}
