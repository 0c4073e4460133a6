package update_schedule

import (
	"github.com/m04kA/SLN-BookingService/internal/service/schedule/models"
)

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
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

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateScheduleRequest) ToServiceRequest(salonID, userID int64) *models.UpdateScheduleRequest {
	rules := make([]*models.RuleItem, len(r.Rules))
	for i, rule := range r.Rules {
		rules[i] = &models.RuleItem{
			Weekday:   rule.Weekday,
			OpenTime:  rule.OpenTime,
			CloseTime: rule.CloseTime,
			IsDayOff:  rule.IsDayOff,
		}
	}

	return &models.UpdateScheduleRequest{
		UserID:  userID,
		SalonID: salonID,
		StaffID: r.StaffID,
		Rules:   rules,
	}
}
