package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserInfoKey ключ снимка пользователя из токена.
	UserInfoKey Key = "user_info"
	// LiveUserKey ключ записи пользователя, прочитанной из хранилища.
	LiveUserKey Key = "live_user"
)

// WithUserInfo кладёт снимок пользователя из токена в контекст.
func WithUserInfo(ctx context.Context, info models.UserInfo) context.Context {
	return context.WithValue(ctx, UserInfoKey, info)
}

// UserInfoFrom возвращает снимок пользователя из токена.
func UserInfoFrom(ctx context.Context) (models.UserInfo, bool) {
	info, ok := ctx.Value(UserInfoKey).(models.UserInfo)
	return info, ok
}

// WithLiveUser кладёт актуальную запись пользователя в контекст.
func WithLiveUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, LiveUserKey, user)
}

// LiveUserFrom возвращает актуальную запись пользователя.
func LiveUserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(LiveUserKey).(*models.User)
	return user, ok && user != nil
}
