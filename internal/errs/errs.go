// Package errs определяет виды ошибок бизнес-логики. Сервисы оборачивают
// их через fmt.Errorf("...: %w", errs.ErrX), обработчики разбирают через
// errors.Is и превращают в HTTP-статусы: ErrValidation — 400,
// ErrUnauthorized — 401, ErrForbidden — 403, ErrNotFound — 404,
// ErrConflict — 400 (исторически не 409), всё прочее — 500.
package errs

import "errors"

var (
	// ErrValidation — некорректные или недостающие входные данные.
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized — отсутствующий/недействительный токен или неактивный аккаунт.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden — роль не имеет прав на операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — сущность не найдена.
	ErrNotFound = errors.New("not found")
	// ErrConflict — дубликат: повторная регистрация, двойной старт таймера, занятый email.
	ErrConflict = errors.New("conflict")
)
