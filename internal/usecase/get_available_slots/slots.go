package get_available_slots

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// generateCandidates генерирует кандидатов слотов внутри рабочего окна
// Кандидаты идут от открытия с фиксированным шагом stepMinutes;
// кандидат включается, только если услуга целиком помещается до закрытия
// (start + serviceDuration <= close)
func generateCandidates(window domain.DayWindow, serviceDuration, stepMinutes int) ([]types.TimeString, error) {
	if window.IsClosed {
		return []types.TimeString{}, nil
	}

	candidates := make([]types.TimeString, 0)
	current := window.OpenTime

	for current.IsBefore(window.CloseTime) {
		end, err := current.AddMinutes(serviceDuration)
		if err != nil {
			// Услуга не помещается до конца суток
			break
		}
		if end.IsAfter(window.CloseTime) {
			break
		}

		candidates = append(candidates, current)

		next, err := current.AddMinutes(stepMinutes)
		if err != nil {
			break
		}
		current = next
	}

	return candidates, nil
}

// filterConflicting отбрасывает кандидатов, пересекающихся с активными записями
// Использует общий предикат domain.Overlaps - тот же, что и при создании записи
func filterConflicting(candidates []types.TimeString, serviceDuration int, appointments []*domain.Appointment) ([]types.TimeString, error) {
	free := make([]types.TimeString, 0, len(candidates))

	for _, candidate := range candidates {
		conflicts, err := domain.OverlapsAnyActive(candidate, serviceDuration, appointments)
		if err != nil {
			return nil, err
		}
		if !conflicts {
			free = append(free, candidate)
		}
	}

	return free, nil
}

// filterLeadTime отбрасывает кандидатов, начинающихся раньше, чем now + leadMinutes
// Для дат в прошлом отбрасывает всё, для будущих дат не фильтрует
func filterLeadTime(candidates []types.TimeString, requestDate, now time.Time, leadMinutes int) []types.TimeString {
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}
	}

	if !isSameDay(requestDate, now) {
		return candidates
	}

	currentTime := types.NewTimeString(now)
	minAllowed, err := currentTime.AddMinutes(leadMinutes)
	if err != nil {
		// now + leadMinutes пересекает полночь: все оставшиеся слоты сегодня слишком близко
		return []types.TimeString{}
	}

	filtered := make([]types.TimeString, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.IsBefore(minAllowed) {
			filtered = append(filtered, candidate)
		}
	}

	return filtered
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
