package rest

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("rest client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от PostgREST
	ErrInvalidResponse = errors.New("rest client: invalid response")
)
