package errors

import (
	"errors"
	"fmt"
)

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверный пароль).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных
	// (неизвестный вопрос, индекс варианта вне диапазона, некорректная викторина).
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, дублирующееся имя предмета).
	ErrConflict = errors.New("resource state conflict")

	// ErrInvalidState используется, когда операция недопустима в текущем состоянии попытки
	// (ответ после завершения, повторное завершение, завершение без старта).
	ErrInvalidState = fmt.Errorf("invalid attempt state: %w", ErrConflict)
)

// StoreError — любая ошибка удаленного хранилища вопросов (сеть, валидация на стороне БД, доступ).
// Message предназначено для показа пользователю, Err — исходная ошибка драйвера.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError оборачивает ошибку хранилища
func NewStoreError(op, message string, err error) *StoreError {
	return &StoreError{Op: op, Message: message, Err: err}
}

// ConsistencyWarning сообщает о частичном успехе двухшаговой операции:
// набор вопросов создан, но вопросы не сохранились. Запись набора остается в хранилище.
type ConsistencyWarning struct {
	// OrphanID — ID созданной записи, оставшейся без дочерних данных
	OrphanID string
	Message  string
	Err      error
}

func (w *ConsistencyWarning) Error() string {
	return fmt.Sprintf("partial write (orphan %s): %s: %v", w.OrphanID, w.Message, w.Err)
}

func (w *ConsistencyWarning) Unwrap() error {
	return w.Err
}

// IsStoreError проверяет, является ли ошибка (или любая из обернутых) StoreError
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// AsConsistencyWarning извлекает ConsistencyWarning из цепочки ошибок
func AsConsistencyWarning(err error) (*ConsistencyWarning, bool) {
	var cw *ConsistencyWarning
	if errors.As(err, &cw) {
		return cw, true
	}
	return nil, false
}
