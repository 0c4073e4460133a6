package create_appointment

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("create_appointment: salon not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден в салоне
	ErrStaffNotFound = errors.New("create_appointment: staff member not found")

	// ErrStaffNotAvailable возвращается, когда мастер неактивен или не выполняет услугу
	ErrStaffNotAvailable = errors.New("create_appointment: staff member is not available for this service")

	// ErrSalonClosed возвращается, когда у мастера выходной в указанную дату
	ErrSalonClosed = errors.New("create_appointment: closed on this date")

	// ErrOutsideWorkingHours возвращается, когда слот не помещается в рабочее окно
	ErrOutsideWorkingHours = errors.New("create_appointment: slot is outside working hours")

	// ErrPastTime возвращается, когда запрошенное время уже прошло
	ErrPastTime = errors.New("create_appointment: requested time is in the past")

	// ErrSlotTaken возвращается, когда слот уже занят другой записью
	// Ожидаемый исход проигранной гонки за слот, а не сбой
	ErrSlotTaken = errors.New("create_appointment: slot is already taken")

	// ErrInvalidDuration возвращается, когда длительность услуги в каталоге некорректна
	ErrInvalidDuration = errors.New("create_appointment: service duration must be positive")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
