package models

import "time"

// SubscriptionExtended — событие о продлении доступа пользователя.
type SubscriptionExtended struct {
	UserID            int64     `json:"user_id"`
	Email             string    `json:"email"`
	Days              int       `json:"days"`
	OldExpirationDate time.Time `json:"old_expiration_date"`
	NewExpirationDate time.Time `json:"new_expiration_date"`
}

// AccessExpiring — напоминание о скором окончании доступа.
type AccessExpiring struct {
	UserID         int64     `json:"user_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	ExpirationDate time.Time `json:"expiration_date"`
}
