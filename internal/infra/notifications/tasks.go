package notifications

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Типы задач очереди уведомлений
// Обрабатываются внешним notification worker'ом
const (
	TypeAppointmentConfirmation = "appointment:confirmation"
	TypeAppointmentReminder     = "appointment:reminder"
)

// AppointmentPayload полезная нагрузка задач уведомлений о записи
type AppointmentPayload struct {
	AppointmentID int64   `json:"appointment_id"`
	CustomerID    int64   `json:"customer_id"`
	SalonID       int64   `json:"salon_id"`
	StaffName     string  `json:"staff_name"`
	ServiceName   string  `json:"service_name"`
	Date          string  `json:"date"`       // YYYY-MM-DD
	StartTime     string  `json:"start_time"` // HH:MM
	Price         float64 `json:"price"`
}

// NewConfirmationTask создает задачу отправки подтверждения записи
func NewConfirmationTask(payload AppointmentPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAppointmentConfirmation, b), nil
}

// NewReminderTask создает задачу напоминания, запланированную на fireAt
func NewReminderTask(payload AppointmentPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
