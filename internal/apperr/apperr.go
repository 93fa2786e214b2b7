// Package apperr — три вида ошибок консоли: ошибки ввода (ловим до запроса),
// отказы бэкенда (показываем detail как есть) и всё остальное (общий текст).
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

const GenericMessage = "Что-то пошло не так. Попробуйте ещё раз."

// ErrNetwork — бэкенд недоступен или ответ не удалось прочитать.
var ErrNetwork = errors.New("apperr: network error")

// Validation — ошибка ввода, до сети дело не доходит.
type Validation struct {
	Field string
	Msg   string
}

func (e *Validation) Error() string { return e.Msg }

func Invalid(field, msg string) error { return &Validation{Field: field, Msg: msg} }

// Backend — отказ бэкенда с HTTP-статусом и текстом detail.
type Backend struct {
	Status int
	Detail string
}

func (e *Backend) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Detail)
}

// Message превращает любую ошибку в текст для пользователя.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ve *Validation
	if errors.As(err, &ve) {
		return ve.Msg
	}
	var be *Backend
	if errors.As(err, &be) && strings.TrimSpace(be.Detail) != "" {
		return be.Detail
	}
	if errors.Is(err, ErrNetwork) {
		return "Сервер недоступен. Проверьте соединение и попробуйте ещё раз."
	}
	return GenericMessage
}

// IsStatus проверяет, что ошибка — отказ бэкенда с указанным статусом.
func IsStatus(err error, status int) bool {
	var be *Backend
	return errors.As(err, &be) && be.Status == status
}
