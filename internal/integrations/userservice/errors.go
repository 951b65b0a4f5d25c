package userservice

import "errors"

var (
	// ErrPatientNotFound возвращается, когда пациент не найден в UserService
	ErrPatientNotFound = errors.New("patient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")
)
