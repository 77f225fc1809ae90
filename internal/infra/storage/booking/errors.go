package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotConflict возвращается, когда интервал пересекается с активным бронированием ресурса
	ErrSlotConflict = errors.New("booking.repository: slot conflict")

	// ErrResourceNotFound возвращается, когда блокируемый ресурс не существует
	ErrResourceNotFound = errors.New("booking.repository: resource not found")

	// ErrTransaction возвращается, когда операция требует транзакции, а её нет
	ErrTransaction = errors.New("booking.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
