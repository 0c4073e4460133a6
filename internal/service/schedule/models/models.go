package models

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// GetScheduleRequest запрос на получение расписания салона или мастера
type GetScheduleRequest struct {
	SalonID int64  `json:"salonId"`
	StaffID *int64 `json:"staffId,omitempty"`
}

// UpdateScheduleRequest запрос на полную замену расписания
type UpdateScheduleRequest struct {
	UserID  int64       `json:"userId"`
	SalonID int64       `json:"salonId"`
	StaffID *int64      `json:"staffId,omitempty"`
	Rules   []*RuleItem `json:"rules"`
}

// RuleItem правило рабочих часов на один день недели
type RuleItem struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
	IsDayOff  bool   `json:"isDayOff"`
}

// ToDomainRule конвертирует правило в domain модель
func (r *RuleItem) ToDomainRule(salonID int64, staffID *int64) *domain.WorkingHoursRule {
	return &domain.WorkingHoursRule{
		SalonID:   salonID,
		StaffID:   staffID,
		Weekday:   time.Weekday(r.Weekday),
		OpenTime:  types.TimeString(r.OpenTime),
		CloseTime: types.TimeString(r.CloseTime),
		IsDayOff:  r.IsDayOff,
	}
}

// ScheduleResponse расписание салона или мастера
type ScheduleResponse struct {
	SalonID int64           `json:"salonId"`
	StaffID *int64          `json:"staffId,omitempty"`
	Rules   []*RuleResponse `json:"rules"`
}

// RuleResponse правило рабочих часов для ответа сервиса
type RuleResponse struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
	IsDayOff  bool   `json:"isDayOff"`
}

// FromDomainRules конвертирует список domain правил в ответ сервиса
func FromDomainRules(salonID int64, staffID *int64, rules []*domain.WorkingHoursRule) *ScheduleResponse {
	result := make([]*RuleResponse, len(rules))
	for i, rule := range rules {
		result[i] = &RuleResponse{
			Weekday:   int(rule.Weekday),
			OpenTime:  rule.OpenTime.String(),
			CloseTime: rule.CloseTime.String(),
			IsDayOff:  rule.IsDayOff,
		}
	}

	return &ScheduleResponse{
		SalonID: salonID,
		StaffID: staffID,
		Rules:   result,
	}
}
