// Package sender отправляет пользователям письма о событиях подписки.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/chat-subscription/internal/lib/sl"
	"github.com/magabrotheeeer/chat-subscription/internal/lib/smtp"
	"github.com/magabrotheeeer/chat-subscription/internal/models"
	"github.com/magabrotheeeer/chat-subscription/internal/rabbitmq"
)

const dateLayout = "02.01.2006"

// SenderService формирует и отправляет письма через SMTP транспорт.
// limiter ограничивает частоту отправки писем, nil снимает ограничение.
type SenderService struct {
	transport smtp.TransportInterface
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, limiter *rate.Limiter, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		limiter:   limiter,
		log:       log,
	}
}

// SendSubscriptionExtended сообщает пользователю о продлении доступа.
// Некорректное сообщение возвращает ошибку с rabbitmq.ErrDrop.
func (s *SenderService) SendSubscriptionExtended(ctx context.Context, body []byte) error {
	const op = "sender.SendSubscriptionExtended"
	var event models.SubscriptionExtended
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: malformed event: %w: %w", op, rabbitmq.ErrDrop, err)
	}
	if event.Email == "" {
		return fmt.Errorf("%s: event without email: %w", op, rabbitmq.ErrDrop)
	}

	subject := "Доступ к чат-ассистенту продлён"
	bodyText := fmt.Sprintf("Здравствуйте!\r\n\r\nВаш доступ продлён на %d дн.\r\nНовая дата окончания: %s.",
		event.Days, event.NewExpirationDate.UTC().Format(dateLayout))

	if err := s.sendEmail(ctx, event.Email, subject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendAccessExpiring напоминает пользователю о скором окончании доступа.
func (s *SenderService) SendAccessExpiring(ctx context.Context, body []byte) error {
	const op = "sender.SendAccessExpiring"
	var event models.AccessExpiring
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: malformed event: %w: %w", op, rabbitmq.ErrDrop, err)
	}
	if event.Email == "" {
		return fmt.Errorf("%s: event without email: %w", op, rabbitmq.ErrDrop)
	}

	subject := "Доступ к чат-ассистенту скоро закончится"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\r\n\r\nВаш доступ заканчивается %s.\r\nЧтобы продолжить пользоваться чатом, обратитесь к администратору.",
		event.Name, event.ExpirationDate.UTC().Format(dateLayout))

	if err := s.sendEmail(ctx, event.Email, subject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SenderService) sendEmail(ctx context.Context, to, subject, bodyText string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("quit: %w", err)
	}

	s.log.Info("email sent successfully", slog.String("to", to))
	return nil
}

func (s *SenderService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return ctx.Err()
	}
	return s.limiter.Wait(ctx)
}
