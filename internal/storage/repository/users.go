package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его ID.
//
// При занятом email возвращает ErrUserExists, существующая запись не меняется.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := s.rebind(`INSERT INTO users (email, name, password_hash, expiration_date, role)
			  VALUES (?, ?, ?, ?, ?)
			  RETURNING id`)
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.ExpirationDate.UTC(), string(user.Role),
	).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := s.rebind(`SELECT id, email, name, password_hash, expiration_date, role
			  FROM users
			  WHERE email = ?`)
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := s.rebind(`SELECT id, email, name, password_hash, expiration_date, role
			  FROM users
			  WHERE id = ?`)
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает публичные данные всех пользователей, упорядоченные по ID.
func (s *Storage) ListUsers(ctx context.Context) ([]models.UserInfo, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, name, expiration_date, role
			  FROM users
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := scanUserInfos(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListExpiringBetween возвращает пользователей, чей доступ заканчивается в интервале [from, to).
func (s *Storage) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]models.UserInfo, error) {
	const op = "storage.ListExpiringBetween"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := s.rebind(`SELECT id, email, name, expiration_date, role
			  FROM users
			  WHERE expiration_date >= ? AND expiration_date < ?
			  ORDER BY id`)
	rows, err := s.DB.QueryContext(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := scanUserInfos(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateExpiration записывает новую дату окончания доступа пользователя.
func (s *Storage) UpdateExpiration(ctx context.Context, id int64, expirationDate time.Time) error {
	const op = "storage.UpdateExpiration"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := s.rebind(`UPDATE users
			  SET expiration_date = ?
			  WHERE id = ?`)
	result, err := s.DB.ExecContext(ctx, query, expirationDate.UTC(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// DeleteUser удаляет пользователя по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteUser(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, s.rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.ExpirationDate, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Role = models.Role(role)
	u.ExpirationDate = u.ExpirationDate.UTC()
	return &u, nil
}

func scanUserInfos(rows *sql.Rows) ([]models.UserInfo, error) {
	result := make([]models.UserInfo, 0)
	for rows.Next() {
		var (
			item models.UserInfo
			role string
		)
		if err := rows.Scan(&item.ID, &item.Email, &item.Name, &item.ExpirationDate, &role); err != nil {
			return nil, err
		}
		item.Role = models.Role(role)
		item.ExpirationDate = item.ExpirationDate.UTC()
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
