// Package auth содержит бизнес-логику регистрации, входа и проверки токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chat-subscription/internal/cache"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/apperr"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/jwt"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/password"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/metrics"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
	"github.com/magabrotheeeer/chat-subscription/internal/storage/repository"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (int64, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Cache описывает инвалидацию закешированного списка пользователей.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
}

// AuthService отвечает за регистрацию, вход и валидацию JWT.
type AuthService struct {
	users       UserRepository
	jwtMaker    jwt.Maker
	cache       Cache
	metrics     *metrics.Metrics
	log         *slog.Logger
	trialPeriod time.Duration
	now         func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
// trialPeriod — срок доступа, который получает новый пользователь.
func NewAuthService(
	users UserRepository,
	jwtMaker jwt.Maker,
	cache Cache,
	m *metrics.Metrics,
	log *slog.Logger,
	trialPeriod time.Duration,
) *AuthService {
	return &AuthService{
		users:       users,
		jwtMaker:    jwtMaker,
		cache:       cache,
		metrics:     m,
		log:         log,
		trialPeriod: trialPeriod,
		now:         time.Now,
	}
}

// Register создает пользователя с ролью user и пробным сроком доступа
// и сразу выдаёт ему токен.
func (s *AuthService) Register(ctx context.Context, email, name, rawPassword string) (result *models.AuthResult, err error) {
	const op = "services.auth.Register"
	defer func() { s.metrics.ObserveAuth(metrics.ActionRegister, err) }()

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
	}

	user := models.User{
		Email:          email,
		Name:           name,
		PasswordHash:   hashed,
		ExpirationDate: s.now().UTC().Add(s.trialPeriod),
		Role:           models.RoleUser,
	}
	id, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrDuplicateAccount)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
	}
	user.ID = id

	if err := s.cache.Invalidate(ctx, cache.KeyUsersList); err != nil {
		s.log.Warn("failed to invalidate users list", sl.Op(op), sl.Err(err))
	}

	return s.issue(op, user)
}

// Login проверяет пароль и срок доступа и выдаёт токен по актуальной записи.
//
// Неизвестный email и неверный пароль дают одну и ту же ошибку.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (result *models.AuthResult, err error) {
	const op = "services.auth.Login"
	defer func() { s.metrics.ObserveAuth(metrics.ActionLogin, err) }()

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			password.CompareDummy(rawPassword)
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
	}

	if user.IsExpired(s.now()) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrAccountExpired)
	}

	return s.issue(op, *user)
}

// VerifyToken проверяет подпись и срок токена и возвращает снимок пользователя из него.
// Хранилище не читается.
func (s *AuthService) VerifyToken(_ context.Context, token string) (*models.UserInfo, error) {
	const op = "services.auth.VerifyToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrUnauthenticated, err)
	}
	info := claims.UserInfo
	return &info, nil
}

func (s *AuthService) issue(op string, user models.User) (*models.AuthResult, error) {
	info := user.Info()
	token, err := s.jwtMaker.GenerateToken(info)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, apperr.ErrInternal, err)
	}
	return &models.AuthResult{Token: token, User: info}, nil
}
