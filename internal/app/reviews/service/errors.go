package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthorized вызывающий не аутентифицирован как покупатель
	ErrNotAuthorized = errors.New("the current customer isn't authorized")
)

// InputError ошибка валидации поля запроса
// Несёт имя поля и готовое сообщение для клиента
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func NewInputError(field, message string) *InputError {
	return &InputError{Field: field, Message: message}
}

// NotFoundError запрошенный по SKU товар не существует в каталоге
type NotFoundError struct {
	Sku string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find a product with SKU %q", e.Sku)
}

// DecodeError переданный токен шкалы оценки не является корректным base64-id
// Источник такие токены не проверял; здесь отклоняем до любой записи в БД
type DecodeError struct {
	Token string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode rating id %q", e.Token)
}
