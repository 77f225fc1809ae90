package get_availability

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("get_availability: resource not found")

	// ErrInvalidDuration возвращается при длительности вне допустимого диапазона
	ErrInvalidDuration = errors.New("get_availability: invalid duration")

	// ErrInvalidSlotFormat возвращается, когда метку слота не удалось разобрать
	ErrInvalidSlotFormat = errors.New("get_availability: invalid slot format")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
