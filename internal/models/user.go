// Package models содержит доменную модель пользователя сервиса:
// учётные данные, роль и дату окончания доступа к чату.
// Структуры используются в бизнес‑логике, при работе с хранилищем и в JWT.
package models

import "time"

// Role — роль пользователя в системе.
type Role string

const (
	// RoleUser роль по умолчанию, назначается при регистрации.
	RoleUser Role = "user"
	// RoleAdmin роль администратора, создаётся только начальными данными.
	RoleAdmin Role = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID             int64     // Идентификатор, назначается хранилищем
	Email          string    // Электронная почта (уникальная), используется как логин
	Name           string    // Отображаемое имя
	PasswordHash   string    // bcrypt‑хэш пароля, никогда не сериализуется
	ExpirationDate time.Time // Дата окончания доступа
	Role           Role      // Роль пользователя, admin или user
}

// UserInfo — публичный снимок пользователя, который кладётся в токен
// и возвращается клиенту.
type UserInfo struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	ExpirationDate time.Time `json:"expirationDate"`
	Role           Role      `json:"role"`
}

// Info возвращает публичные поля пользователя без хэша пароля.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		ExpirationDate: u.ExpirationDate,
		Role:           u.Role,
	}
}

// IsExpired сообщает, истёк ли доступ на момент now.
func (u *User) IsExpired(now time.Time) bool {
	return u.ExpirationDate.Before(now)
}

// IsAdmin сообщает, является ли снимок администраторским.
func (i UserInfo) IsAdmin() bool {
	return i.Role == RoleAdmin
}
