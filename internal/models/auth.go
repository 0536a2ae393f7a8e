package models

// AuthResult — ответ на успешную регистрацию или вход.
type AuthResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}
