package domain

import "github.com/m04kA/SLN-BookingService/pkg/types"

// Overlaps проверяет пересечение двух полуоткрытых интервалов [start, end)
// Интервалы пересекаются, только если:
// - начало первого СТРОГО раньше конца второго И
// - начало второго СТРОГО раньше конца первого
// Граничащие интервалы (конец одного равен началу другого) НЕ пересекаются
//
// Примеры:
// - [11:30, 12:00) и [11:20, 11:40) → пересекаются (11:30-11:40)
// - [11:30, 12:00) и [11:00, 11:30) → не пересекаются (граничат)
// - [11:30, 12:00) и [12:00, 12:30) → не пересекаются (граничат)
//
// Единственный предикат пересечения в системе: используется и при выдаче
// доступных слотов, и при проверке бронирования, чтобы слот, показанный как
// свободный, принимался тем же условием
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}

// OverlapsAnyActive проверяет, пересекается ли интервал [start, start+duration)
// хотя бы с одной активной записью из списка
// Записи с некорректным временем пропускаются
func OverlapsAnyActive(start types.TimeString, durationMinutes int, appointments []*Appointment) (bool, error) {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return false, err
	}

	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}

		apptEnd, err := appt.StartTime.AddMinutes(appt.DurationMinutes)
		if err != nil {
			continue
		}

		if Overlaps(start, end, appt.StartTime, apptEnd) {
			return true, nil
		}
	}

	return false, nil
}
