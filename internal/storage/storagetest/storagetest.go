// Package storagetest содержит помощники для тестов, которым нужно
// настоящее хранилище: SQLite в памяти с применёнными миграциями,
// фабрику тестовых данных и проверки состояния таблицы users.
package storagetest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/password"
	"github.com/magabrotheeeer/chat-subscription/internal/migrations"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
	"github.com/magabrotheeeer/chat-subscription/internal/storage/repository"
)

// MigrationsPath возвращает абсолютный путь к миграциям для драйвера.
func MigrationsPath(t *testing.T, driver string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	dir := "sqlite"
	if driver == repository.DriverPostgres {
		dir = "postgres"
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations", dir)
}

// NewSQLite создаёт хранилище SQLite в памяти с применёнными миграциями.
func NewSQLite(t *testing.T) *repository.Storage {
	t.Helper()
	storage, err := repository.New(repository.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	err = migrations.Run(storage.DB, repository.DriverSQLite, MigrationsPath(t, repository.DriverSQLite))
	require.NoError(t, err)
	return storage
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *repository.Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *repository.Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя с паролем plain и возвращает его.
func (f *TestDataFactory) CreateUser(t *testing.T, email, plain string, role models.Role, expirationDate time.Time) models.User {
	t.Helper()
	hash, err := password.GetHash(plain)
	require.NoError(t, err)

	user := models.User{
		Email:          email,
		Name:           "Test " + string(role),
		PasswordHash:   hash,
		ExpirationDate: expirationDate.UTC(),
		Role:           role,
	}
	id, err := f.storage.RegisterUser(context.Background(), user)
	require.NoError(t, err)
	user.ID = id
	return user
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *repository.Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *repository.Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyUserCount проверяет количество пользователей в БД
func (v *TestVerification) VerifyUserCount(t *testing.T, expected int) {
	t.Helper()
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// VerifyExpiration проверяет дату окончания доступа пользователя
func (v *TestVerification) VerifyExpiration(t *testing.T, id int64, expected time.Time) {
	t.Helper()
	user, err := v.storage.GetUser(context.Background(), id)
	require.NoError(t, err)
	require.WithinDuration(t, expected, user.ExpirationDate, time.Second)
}
