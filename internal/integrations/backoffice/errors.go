package backoffice

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("backoffice client: internal error")

	// ErrUnavailable возвращается, когда бэк-офис недоступен
	ErrUnavailable = errors.New("backoffice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от бэк-офиса
	ErrInvalidResponse = errors.New("backoffice client: invalid response")
)
