// Package services содержит отправку писем-уведомлений менеджерам
// о предстоящих звонках клиентам.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/lib/smtp"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
)

// SenderService потребляет напоминания из очереди и отправляет письма
// владеющим менеджерам.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendCallReminder разбирает сообщение планировщика и шлет письмо менеджеру.
// Напоминание без email менеджера пропускается без ошибки, чтобы сообщение
// не крутилось в очереди бесконечно.
func (s *SenderService) SendCallReminder(body []byte) error {
	var reminder models.CallReminder
	if err := json.Unmarshal(body, &reminder); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	if reminder.ManagerEmail == "" {
		s.log.Warn("reminder has no manager email, skipping",
			slog.Int("id", reminder.ID))
		return nil
	}

	to := []string{reminder.ManagerEmail}
	subject := "Напоминание о звонке клиенту"
	bodyText := fmt.Sprintf(
		"Здравствуйте, %s!\n\nЗапланирован звонок клиенту %s (%s) на %s.\n\n%s",
		reminder.ManagerName, reminder.ClientName, reminder.ClientPhone,
		reminder.ReminderDate.Format("02.01.2006 15:04"), reminder.Description)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
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
