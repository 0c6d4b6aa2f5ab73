// Package services содержит планировщик уведомлений: периодически находит
// напоминания о звонках, до которых осталось меньше окна, и публикует их
// в очередь для отправки писем менеджерам.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/olympiad-crm/internal/lib/sl"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
	"github.com/magabrotheeeer/olympiad-crm/internal/rabbitmq"
)

// ReminderRepository определяет методы выборки и пометки напоминаний.
type ReminderRepository interface {
	// FindDueReminders возвращает ожидающие напоминания в окне [now, now+window]
	// без отправленного уведомления.
	FindDueReminders(ctx context.Context, now time.Time, window time.Duration) ([]*models.CallReminder, error)
	// MarkReminderNotified фиксирует отправку уведомления.
	MarkReminderNotified(ctx context.Context, id int, notifiedAt time.Time) error
}

// SchedulerService публикует напоминания, подошедшие к сроку. Напоминание
// помечается notified_at сразу после успешной публикации, чтобы не попасть
// в очередь повторно на следующем тике.
type SchedulerService struct {
	repo   ReminderRepository
	log    *slog.Logger
	every  time.Duration
	window time.Duration
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo ReminderRepository, log *slog.Logger, every, window time.Duration) *SchedulerService {
	if every <= 0 {
		every = 5 * time.Minute
	}
	if window <= 0 {
		window = time.Hour
	}
	return &SchedulerService{
		repo:   repo,
		log:    log,
		every:  every,
		window: window,
	}
}

// Run крутит цикл публикации до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context, channel *amqp.Channel) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishDue(ctx, channel)
		}
	}
}

func (s *SchedulerService) publishDue(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("looking for due call reminders")
	reminders, err := s.repo.FindDueReminders(ctx, time.Now(), s.window)
	if err != nil {
		s.log.Error("failed to find due reminders", sl.Err(err))
		return
	}

	for _, reminder := range reminders {
		err = rabbitmq.PublishMessage(channel,
			rabbitmq.RemindersExchange, rabbitmq.DueRoutingKey, reminder)
		if err != nil {
			s.log.Error("failed to publish reminder",
				slog.Int("id", reminder.ID), sl.Err(err))
			continue
		}
		if err = s.repo.MarkReminderNotified(ctx, reminder.ID, time.Now()); err != nil {
			s.log.Error("failed to mark reminder notified",
				slog.Int("id", reminder.ID), sl.Err(err))
		}
	}
	if len(reminders) > 0 {
		s.log.Info("published due reminders", slog.Int("count", len(reminders)))
	}
}
