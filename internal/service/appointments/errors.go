package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у актора нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotComplete возвращается, когда приём нельзя завершить
	// (запись отменена или уже завершена)
	ErrCannotComplete = errors.New("appointment cannot be completed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
