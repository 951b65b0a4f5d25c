package book_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("book_appointment: doctor not found")

	// ErrDoctorUnavailable возвращается, когда врач не принимает новые записи
	ErrDoctorUnavailable = errors.New("book_appointment: doctor is not accepting bookings")

	// ErrPatientNotFound возвращается, когда пациент не найден в UserService
	ErrPatientNotFound = errors.New("book_appointment: patient not found")

	// ErrSlotConflict возвращается, когда слот уже занят.
	// Клиенту следует перечитать доступность, а не повторять тот же слот.
	ErrSlotConflict = errors.New("book_appointment: slot is no longer available")

	// ErrInvalidTimeSlot возвращается, когда слот вне рабочих часов клиники
	// или не выровнен по получасовой сетке
	ErrInvalidTimeSlot = errors.New("book_appointment: invalid time slot")

	// ErrSlotInPast возвращается при попытке забронировать прошедший слот
	ErrSlotInPast = errors.New("book_appointment: slot is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
