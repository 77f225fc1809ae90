package catalog

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден или снят с бронирования
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
