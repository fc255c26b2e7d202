// Package notifier отправляет пользователям письма об истечении
// доступа к продукту. Сообщения приходят из очереди событий сверки.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/content-admin/internal/lib/sl"
	"github.com/magabrotheeeer/content-admin/internal/lib/smtp"
	"github.com/magabrotheeeer/content-admin/internal/services/reconciler"
)

// Service потребляет события истечения доступа и рассылает уведомления.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{transport: transport, log: log}
}

// SendAccessExpired обрабатывает одно событие из очереди: письмо
// пользователю о том, что доступ к продукту закончился.
func (s *Service) SendAccessExpired(body []byte) error {
	var event reconciler.ExpiredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal expired event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.Email == "" {
		// Письмо отправить некуда, событие считаем обработанным.
		s.log.Warn("expired event without email", slog.String("user_id", event.UserID))
		return nil
	}

	product := event.ProductName
	if product == "" {
		product = event.ProductID
	}
	subject := "Срок доступа к продукту истёк"
	bodyText := fmt.Sprintf(
		"Здравствуйте!\n\nВаш доступ к продукту %s закончился %s.\nЧтобы продолжить пользоваться материалами, оформите доступ заново.",
		product, event.EndDate.Format("02.01.2006"))

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
