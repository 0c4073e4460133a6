package domain

import (
	"time"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// WorkingHoursRule правило рабочих часов на день недели
// StaffID = nil означает правило на весь салон (fallback для мастеров без
// собственного расписания)
type WorkingHoursRule struct {
	ID        int64
	SalonID   int64
	StaffID   *int64
	Weekday   time.Weekday
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsDayOff  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsStaffSpecific возвращает true, если правило задано для конкретного мастера
func (r *WorkingHoursRule) IsStaffSpecific() bool {
	return r.StaffID != nil
}

// DayWindow разрешённое рабочее окно на конкретную дату
type DayWindow struct {
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsClosed  bool
}

// Window возвращает рабочее окно по правилу
func (r *WorkingHoursRule) Window() DayWindow {
	if r.IsDayOff {
		return DayWindow{IsClosed: true}
	}
	return DayWindow{OpenTime: r.OpenTime, CloseTime: r.CloseTime}
}

// DefaultDayWindow окно по умолчанию, когда ни у мастера, ни у салона
// нет правила на этот день недели
func DefaultDayWindow() DayWindow {
	return DayWindow{
		OpenTime:  DefaultOpenTime,
		CloseTime: DefaultCloseTime,
	}
}
