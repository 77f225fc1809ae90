package admit_booking

import (
	"time"
)

// Config параметры допуска бронирований
type Config struct {
	CleaningBufferMinutes int // вычитается из конца интервала
	MaxDurationHours      int
}

// Request модель запроса на бронирование
type Request struct {
	ResourceIDs   []string  // Комната/будка или набор мест кафе
	Date          time.Time // Дата (начало дня в часовом поясе площадки)
	SlotLabel     string    // Слот начала, например "6:00 PM"
	DurationHours int       // Длительность в часах
	CustomerName  string
	CustomerPhone *string
	Notes         *string
}

// Response модель ответа с принятым бронированием
type Response struct {
	ID                    int64
	ResourceIDs           []string
	StartDateTime         time.Time
	EndDateTime           time.Time
	DurationHours         int
	CleaningBufferMinutes int
	Status                string
	TotalPrice            float64
	CustomerName          string
	CustomerPhone         *string
	Notes                 *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
