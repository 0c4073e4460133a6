package domain

import "github.com/m04kA/SLN-BookingService/pkg/types"

// Default scheduling policy values
const (
	// DefaultSlotStepMinutes шаг генерации кандидатов слотов
	// Единая гранулярность для выдачи доступности и проверки бронирования
	DefaultSlotStepMinutes = 30

	// DefaultLeadTimeMinutes минимальное время от "сейчас" до начала слота
	// Применяется только при выдаче доступности на сегодня
	DefaultLeadTimeMinutes = 30

	// DefaultReminderLeadHours за сколько часов до записи отправляется напоминание
	DefaultReminderLeadHours = 24
)

// Default working window when neither the staff member nor the salon
// has a configured rule for the weekday
const (
	DefaultOpenTime  = types.TimeString("09:00")
	DefaultCloseTime = types.TimeString("19:00")
)

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// DateFormat формат дат в API (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// ActiveStatuses статусы записей, занимающих время мастера
// Используются при фильтрации для проверки пересечений
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы записей, не блокирующих новые бронирования
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
}
