package get_availability

import (
	"time"
)

// Request модель запроса доступности
type Request struct {
	ResourceIDs   []string  // Один ресурс или несколько мест кафе
	Date          time.Time // Дата (начало дня в часовом поясе площадки)
	DurationHours int       // Запрошенная длительность в часах
	SlotLabel     string    // Опционально: слот для проверки мест по отдельности
}

// Response модель ответа с доступностью
type Response struct {
	Date          time.Time
	ResourceIDs   []string
	DurationHours int
	DateAvailable bool     // false - день недели не разрешен для ресурса
	BlockedSlots  []string // в порядке сетки
	FullyBooked   bool

	// Seats доступность по местам, только для запроса нескольких мест
	Seats map[string]SeatAvailability

	Cached bool
}

// SeatAvailability доступность отдельного места кафе
type SeatAvailability struct {
	BlockedSlots []string
	FullyBooked  bool
	Available    *bool // только если в запросе указан слот
}
