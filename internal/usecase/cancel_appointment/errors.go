package cancel_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrAlreadyCancelled возвращается при повторной отмене.
	// Слот при этом повторно не освобождается.
	ErrAlreadyCancelled = errors.New("cancel_appointment: appointment already cancelled")

	// ErrForbidden возвращается, когда актор не имеет права отменить запись
	ErrForbidden = errors.New("cancel_appointment: actor is not allowed to cancel this appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
