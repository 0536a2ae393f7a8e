// Package account содержит проверку права доступа к чату и
// административные операции над пользователями.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chat-subscription/internal/cache"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/password"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
	"github.com/magabrotheeeer/chat-subscription/internal/storage/repository"
)

// DefaultExtensionDays — срок продления, если администратор его не указал.
const DefaultExtensionDays = 7

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// RegisterUser добавляет пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (int64, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUsers возвращает публичные данные всех пользователей.
	ListUsers(ctx context.Context) ([]models.UserInfo, error)
	// UpdateExpiration записывает новую дату окончания доступа.
	UpdateExpiration(ctx context.Context, id int64, expirationDate time.Time) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует события о продлении доступа.
type EventPublisher interface {
	PublishSubscriptionExtended(ctx context.Context, event models.SubscriptionExtended) error
}

// AccountService реализует проверку доступа и администрирование пользователей.
type AccountService struct {
	users   UserRepository
	cache   Cache
	events  EventPublisher
	log     *slog.Logger
	listTTL time.Duration
	now     func() time.Time
}

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(users UserRepository, cache Cache, events EventPublisher, log *slog.Logger, listTTL time.Duration) *AccountService {
	return &AccountService{
		users:   users,
		cache:   cache,
		events:  events,
		log:     log,
		listTTL: listTTL,
		now:     time.Now,
	}
}

// CheckAccess заново читает пользователя из хранилища и проверяет,
// что его доступ не истёк. Кеш не используется.
func (s *AccountService) CheckAccess(ctx context.Context, userID int64) (*models.User, error) {
	const op = "services.account.CheckAccess"

	user, err := s.getUser(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	if user.IsExpired(s.now()) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrAccountExpired)
	}
	return user, nil
}

// ListUsers возвращает всех пользователей, используя кеш или репозиторий.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.UserInfo, error) {
	const op = "services.account.ListUsers"

	var users []models.UserInfo
	found, err := s.cache.Get(ctx, cache.KeyUsersList, &users)
	if err != nil {
		s.log.Warn("failed to read users list from cache", sl.Op(op), sl.Err(err))
	}
	if found && users != nil {
		return users, nil
	}

	users, err = s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
	}

	if err := s.cache.Set(ctx, cache.KeyUsersList, users, s.listTTL); err != nil {
		s.log.Warn("failed to cache users list", sl.Op(op), sl.Err(err))
	}
	return users, nil
}

// ExtendSubscription продлевает доступ пользователя на days дней
// от большей из дат: текущего окончания доступа или текущего момента.
// При days == 0 используется DefaultExtensionDays.
func (s *AccountService) ExtendSubscription(ctx context.Context, userID int64, days int) (time.Time, error) {
	const op = "services.account.ExtendSubscription"

	if days < 0 {
		return time.Time{}, fmt.Errorf("%s: %w: days must not be negative", op, apperr.ErrInvalidInput)
	}
	if days == 0 {
		days = DefaultExtensionDays
	}

	user, err := s.getUser(ctx, op, userID)
	if err != nil {
		return time.Time{}, err
	}

	base := s.now().UTC()
	if user.ExpirationDate.After(base) {
		base = user.ExpirationDate
	}
	newExpiration := base.AddDate(0, 0, days)

	if err := s.users.UpdateExpiration(ctx, userID, newExpiration); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return time.Time{}, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
	}

	s.log.Info("subscription extended",
		sl.Op(op),
		slog.Int64("user_id", userID),
		slog.Int("days", days),
		slog.Time("expiration_date", newExpiration),
	)

	if err := s.cache.Invalidate(ctx, cache.KeyUsersList); err != nil {
		s.log.Warn("failed to invalidate users list", sl.Op(op), sl.Err(err))
	}

	event := models.SubscriptionExtended{
		UserID:            userID,
		Email:             user.Email,
		Days:              days,
		OldExpirationDate: user.ExpirationDate,
		NewExpirationDate: newExpiration,
	}
	if err := s.events.PublishSubscriptionExtended(ctx, event); err != nil {
		s.log.Warn("failed to publish subscription extended event", sl.Op(op), sl.Err(err))
	}

	return newExpiration, nil
}

// EnsureAdmin создает администратора с указанным email, если такого
// пользователя ещё нет. Существующая запись не меняется.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, name, rawPassword string, accessTime time.Duration) error {
	const op = "services.account.EnsureAdmin"

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		s.log.Debug("admin already exists", sl.Op(op), slog.String("email", email))
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.users.RegisterUser(ctx, models.User{
		Email:          email,
		Name:           name,
		PasswordHash:   hashed,
		ExpirationDate: s.now().UTC().Add(accessTime),
		Role:           models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("admin created", sl.Op(op), slog.Int64("user_id", id), slog.String("email", email))
	return nil
}

func (s *AccountService) getUser(ctx context.Context, op string, userID int64) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
	}
	return user, nil
}
