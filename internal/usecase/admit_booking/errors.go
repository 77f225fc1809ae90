package admit_booking

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден или снят с бронирования
	ErrResourceNotFound = errors.New("admit_booking: resource not found")

	// ErrDateUnavailable возвращается, когда ресурс не бронируется в этот день недели
	ErrDateUnavailable = errors.New("admit_booking: date is not available for this resource")

	// ErrInvalidTimeSlot возвращается, когда слота нет в сетке ресурса
	ErrInvalidTimeSlot = errors.New("admit_booking: slot is not offered by this resource")

	// ErrInvalidSlotFormat возвращается, когда метку слота не удалось разобрать
	ErrInvalidSlotFormat = errors.New("admit_booking: invalid slot format")

	// ErrInvalidDuration возвращается при длительности вне допустимого диапазона
	ErrInvalidDuration = errors.New("admit_booking: invalid duration")

	// ErrSlotConflict возвращается, когда интервал пересекается с активным бронированием
	ErrSlotConflict = errors.New("admit_booking: slot conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("admit_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("admit_booking: internal error")
)
