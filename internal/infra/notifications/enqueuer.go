package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SLN-BookingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Enqueuer ставит уведомления о записях в очередь Redis (asynq)
// Доставкой занимается внешний worker; ошибки постановки в очередь
// не должны влиять на результат бронирования
type Enqueuer struct {
	client *asynq.Client
	log    Logger
}

// NewEnqueuer создает новый enqueuer поверх Redis
func NewEnqueuer(redisAddr, redisPassword string, redisDB int, log Logger) *Enqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	return &Enqueuer{
		client: client,
		log:    log,
	}
}

// Close закрывает соединение с Redis
func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// EnqueueAppointmentCreated ставит в очередь подтверждение и напоминание о записи
// Напоминание планируется за domain.DefaultReminderLeadHours часов до начала;
// если до записи меньше, напоминание не ставится
func (e *Enqueuer) EnqueueAppointmentCreated(ctx context.Context, appt *domain.Appointment) error {
	payload := AppointmentPayload{
		AppointmentID: appt.ID,
		CustomerID:    appt.CustomerID,
		SalonID:       appt.SalonID,
		StaffName:     appt.StaffName,
		ServiceName:   appt.ServiceName,
		Date:          appt.AppointmentDate.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
		Price:         appt.ServicePrice,
	}

	task, err := NewConfirmationTask(payload)
	if err != nil {
		return fmt.Errorf("notifications: build confirmation task: %w", err)
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("notifications: enqueue confirmation: %w", err)
	}
	e.log.Info("Notifications: confirmation task enqueued, task_id=%s, appointment_id=%d", info.ID, appt.ID)

	fireAt := reminderFireAt(appt)
	if fireAt.Before(time.Now()) {
		e.log.Info("Notifications: reminder skipped for appointment_id=%d, start is too close", appt.ID)
		return nil
	}

	reminder, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("notifications: build reminder task: %w", err)
	}

	info, err = e.client.EnqueueContext(ctx, reminder, opts...)
	if err != nil {
		return fmt.Errorf("notifications: enqueue reminder: %w", err)
	}
	e.log.Info("Notifications: reminder task enqueued, task_id=%s, appointment_id=%d, fire_at=%s",
		info.ID, appt.ID, fireAt.Format(time.RFC3339))

	return nil
}

// reminderFireAt возвращает момент отправки напоминания:
// начало записи минус DefaultReminderLeadHours
func reminderFireAt(appt *domain.Appointment) time.Time {
	start := time.Date(
		appt.AppointmentDate.Year(),
		appt.AppointmentDate.Month(),
		appt.AppointmentDate.Day(),
		appt.StartTime.TotalMinutes()/60,
		appt.StartTime.TotalMinutes()%60,
		0, 0,
		appt.AppointmentDate.Location(),
	)
	return start.Add(-domain.DefaultReminderLeadHours * time.Hour)
}
