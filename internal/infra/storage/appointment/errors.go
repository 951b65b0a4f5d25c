package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrAlreadyCancelled возвращается при попытке отменить уже отменённую запись
	ErrAlreadyCancelled = errors.New("appointment.repository: appointment already cancelled")

	// ErrAlreadyCompleted возвращается при попытке завершить уже завершённый приём
	ErrAlreadyCompleted = errors.New("appointment.repository: appointment already completed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
