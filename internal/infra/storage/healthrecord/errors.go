package healthrecord

import "errors"

var (
	// ErrRecordNotFound возвращается, когда запись медкарты не найдена
	ErrRecordNotFound = errors.New("healthrecord.repository: record not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("healthrecord.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("healthrecord.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("healthrecord.repository: failed to scan row")
)
