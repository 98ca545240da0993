package insight

import (
	"errors"
	"fmt"
)

// ErrConcurrentUpdate возвращается при конфликте одновременного обновления
// серии активности. Вызывающая сторона должна перечитать состояние и
// повторить переход.
var ErrConcurrentUpdate = errors.New("streak was updated concurrently")

// InvalidInputError - нарушение контракта вызова: отрицательная сумма,
// неизвестная категория, отсутствующий обязательный агрегат.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}
