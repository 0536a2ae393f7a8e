// Package scheduler периодически ищет пользователей с истекающим доступом
// и публикует для них напоминания.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
)

// UserRepository выбирает пользователей по дате окончания доступа.
type UserRepository interface {
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]models.UserInfo, error)
}

// Publisher отправляет напоминания в брокер.
type Publisher interface {
	PublishAccessExpiring(ctx context.Context, event models.AccessExpiring) error
}

// SchedulerService рассылает напоминания об окончании доступа.
type SchedulerService struct {
	repo     UserRepository
	events   Publisher
	log      *slog.Logger
	interval time.Duration
	lead     time.Duration
	now      func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo UserRepository, events Publisher, log *slog.Logger, interval, lead time.Duration) *SchedulerService {
	return &SchedulerService{
		repo:     repo,
		events:   events,
		log:      log,
		interval: interval,
		lead:     lead,
		now:      time.Now,
	}
}

// Run выполняет проверку сразу и далее раз в interval, пока не отменён контекст.
func (s *SchedulerService) Run(ctx context.Context) {
	s.runOnceLogged(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnceLogged(ctx)
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		}
	}
}

func (s *SchedulerService) runOnceLogged(ctx context.Context) {
	sent, err := s.NotifyExpiring(ctx)
	if err != nil {
		s.log.Error("failed to notify expiring users", sl.Err(err))
		return
	}
	s.log.Info("expiring access check finished", slog.Int("notified", sent))
}

// NotifyExpiring публикует напоминания пользователям, чей доступ истекает
// в окне [now+lead, now+lead+interval), и возвращает число отправленных.
// Ошибка публикации одного напоминания не прерывает рассылку.
func (s *SchedulerService) NotifyExpiring(ctx context.Context) (int, error) {
	const op = "scheduler.NotifyExpiring"
	from := s.now().UTC().Add(s.lead)
	to := from.Add(s.interval)

	users, err := s.repo.ListExpiringBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(users) == 0 {
		return 0, nil
	}

	sent := 0
	for _, u := range users {
		event := models.AccessExpiring{
			UserID:         u.ID,
			Email:          u.Email,
			Name:           u.Name,
			ExpirationDate: u.ExpirationDate,
		}
		if err := s.events.PublishAccessExpiring(ctx, event); err != nil {
			s.log.Error("failed to publish message", slog.Int64("user_id", u.ID), sl.Err(err))
			continue
		}
		sent++
	}
	return sent, nil
}
