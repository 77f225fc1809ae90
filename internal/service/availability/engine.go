package availability

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/pkg/slottime"
)

var (
	// ErrInvalidDuration возвращается при нулевой или отрицательной длительности
	ErrInvalidDuration = errors.New("availability: invalid duration")

	// ErrNoResources возвращается, когда не передано ни одного ресурса
	ErrNoResources = errors.New("availability: no resources")
)

// MalformedLabelFunc вызывается для каждой метки сетки, которую не удалось разобрать
type MalformedLabelFunc func(resourceID, label string, err error)

// Engine вычисляет заблокированные слоты ресурса на дату
// Чистая функция от (ресурсы, активные бронирования, запрос), без состояния
type Engine struct {
	granularity time.Duration
}

// NewEngine создает движок с шагом окна проверки granularity (по умолчанию 1 час)
func NewEngine(granularity time.Duration) *Engine {
	if granularity <= 0 {
		granularity = domain.DefaultSlotGranularity
	}
	return &Engine{granularity: granularity}
}

// Input входные данные вычисления доступности
type Input struct {
	Resources []*domain.Resource
	// Bookings активные бронирования по ID ресурса
	Bookings      map[string][]*domain.Booking
	Date          time.Time
	DurationHours int
	SlotLabel     string

	OnMalformedLabel MalformedLabelFunc
}

// Evaluate вычисляет доступность одного ресурса или набора мест кафе
func (e *Engine) Evaluate(in Input) (*domain.AvailabilityResult, error) {
	if in.DurationHours <= 0 {
		return nil, ErrInvalidDuration
	}
	if len(in.Resources) == 0 {
		return nil, ErrNoResources
	}

	// 1. Проверка дня недели: если хотя бы один ресурс недоступен, слоты не считаем
	for _, r := range in.Resources {
		if !r.IsAvailableOn(in.Date) {
			return &domain.AvailabilityResult{
				DateAvailable: false,
				BlockedSlots:  []string{},
				FullyBooked:   false,
			}, nil
		}
	}

	// 2. Один ресурс (комната, будка)
	if len(in.Resources) == 1 {
		r := in.Resources[0]
		bookings := bookingsFor(r.ID, in.Bookings)
		return &domain.AvailabilityResult{
			DateAvailable: true,
			BlockedSlots:  e.BlockedSlots(r, bookings, in.Date, in.DurationHours, in.OnMalformedLabel),
			FullyBooked:   e.IsFullyBooked(r, bookings, in.Date),
		}, nil
	}

	// 3. Несколько мест кафе: каждое место считается независимо
	result := &domain.AvailabilityResult{
		DateAvailable: true,
		BlockedSlots:  []string{},
		FullyBooked:   true,
		Seats:         make(map[string]*domain.SeatAvailability, len(in.Resources)),
	}
	blocked := make(map[string]struct{})
	emitted := make(map[string]struct{})

	for _, r := range in.Resources {
		bookings := bookingsFor(r.ID, in.Bookings)

		seat := &domain.SeatAvailability{
			BlockedSlots: e.BlockedSlots(r, bookings, in.Date, in.DurationHours, in.OnMalformedLabel),
			FullyBooked:  e.IsFullyBooked(r, bookings, in.Date),
		}

		if in.SlotLabel != "" {
			available := true
			if start, err := slottime.ParseSlotLabel(in.SlotLabel, in.Date); err == nil {
				available = !e.IsBlocked(start, in.DurationHours, bookings)
			}
			seat.Available = &available
		}

		// Выбор, включающий занятое место, не может начаться в этом слоте
		for _, label := range seat.BlockedSlots {
			blocked[label] = struct{}{}
		}

		if !seat.FullyBooked {
			result.FullyBooked = false
		}
		result.Seats[r.ID] = seat
	}

	// Объединение в порядке сеток мест
	for _, r := range in.Resources {
		for _, label := range r.SlotGrid {
			if _, ok := blocked[label]; !ok {
				continue
			}
			if _, ok := emitted[label]; ok {
				continue
			}
			emitted[label] = struct{}{}
			result.BlockedSlots = append(result.BlockedSlots, label)
		}
	}

	return result, nil
}

// BlockedSlots возвращает метки сетки ресурса, с которых нельзя начать бронирование
// длительностью durationHours. Неразборчивые метки пропускаются (никогда не блокируются).
func (e *Engine) BlockedSlots(
	resource *domain.Resource,
	bookings []*domain.Booking,
	date time.Time,
	durationHours int,
	onMalformed MalformedLabelFunc,
) []string {
	blocked := make([]string, 0)

	for _, label := range resource.SlotGrid {
		slotStart, err := slottime.ParseSlotLabel(label, date)
		if err != nil {
			if onMalformed != nil {
				onMalformed(resource.ID, label, err)
			}
			continue
		}

		if e.IsBlocked(slotStart, durationHours, bookings) {
			blocked = append(blocked, label)
		}
	}

	return blocked
}

// IsBlocked проверяет окна [slotStart + d·g, slotStart + (d+1)·g) на пересечение
// с активными бронированиями, пока окна не покроют durationHours часов
func (e *Engine) IsBlocked(slotStart time.Time, durationHours int, bookings []*domain.Booking) bool {
	span := time.Duration(durationHours) * time.Hour

	for offset := time.Duration(0); offset < span; offset += e.granularity {
		windowStart := slotStart.Add(offset)
		windowEnd := windowStart.Add(e.granularity)
		if windowEnd.After(slotStart.Add(span)) {
			windowEnd = slotStart.Add(span)
		}

		for _, b := range bookings {
			if !b.IsActive() {
				continue
			}
			if b.Overlaps(windowStart, windowEnd) {
				return true
			}
		}
	}

	return false
}

// IsFullyBooked день полностью занят, если при длительности 1 час заблокированы
// все различные метки сетки. Пустая сетка никогда не считается занятой.
func (e *Engine) IsFullyBooked(resource *domain.Resource, bookings []*domain.Booking, date time.Time) bool {
	distinct := make(map[string]struct{}, len(resource.SlotGrid))
	for _, label := range resource.SlotGrid {
		distinct[label] = struct{}{}
	}
	if len(distinct) == 0 {
		return false
	}

	blocked := make(map[string]struct{})
	for _, label := range e.BlockedSlots(resource, bookings, date, 1, nil) {
		blocked[label] = struct{}{}
	}

	return len(blocked) == len(distinct)
}

// bookingsFor выбирает бронирования, ссылающиеся на ресурс
func bookingsFor(resourceID string, all map[string][]*domain.Booking) []*domain.Booking {
	result := make([]*domain.Booking, 0, len(all[resourceID]))
	for _, b := range all[resourceID] {
		if b.References(resourceID) {
			result = append(result, b)
		}
	}
	return result
}
