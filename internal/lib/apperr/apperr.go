// Package apperr объявляет ошибки бизнес‑уровня, общие для сервисов
// и HTTP‑слоя. Нижние слои оборачивают их через %w, а HTTP‑слой
// сопоставляет их со статусами через errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidCredentials — неизвестный email или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateAccount — пользователь с таким email уже существует.
	ErrDuplicateAccount = errors.New("email already registered")
	// ErrAccountExpired — срок доступа аккаунта истёк.
	ErrAccountExpired = errors.New("account expired")
	// ErrUnauthenticated — отсутствует или недействителен токен.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — у вызывающего нет нужной роли.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — пользователь не найден.
	ErrNotFound = errors.New("user not found")
	// ErrUpstream — ошибка внешнего API генерации ответов.
	ErrUpstream = errors.New("completion api error")
	// ErrInvalidInput — параметры запроса не прошли проверку.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal — ошибка хранилища или другая внутренняя ошибка.
	ErrInternal = errors.New("internal error")
)
