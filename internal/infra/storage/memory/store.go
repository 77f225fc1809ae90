package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

// Store хранилище каталога и бронирований в памяти процесса
// Используется для локального запуска (storage.driver = "memory") и тестов.
// Чтения берут снимок под RLock; допуск бронирований сериализуется с
// помощью мьютексов на ресурс, которые захватывает TxManager.
type Store struct {
	mu         sync.RWMutex
	resources  map[string]*domain.Resource
	bookings   map[int64]*domain.Booking
	byResource map[string][]int64
	nextID     int64

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// txMu сериализует транзакции смены статуса (Do)
	txMu sync.Mutex

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		resources:  make(map[string]*domain.Resource),
		bookings:   make(map[int64]*domain.Booking),
		byResource: make(map[string][]int64),
		locks:      make(map[string]*sync.Mutex),
		now:        time.Now,
	}
}

// PutResource добавляет или заменяет ресурс каталога
func (s *Store) PutResource(res *domain.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copyResource(res)
	now := s.now()
	if existing, ok := s.resources[res.ID]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else {
		cp.CreatedAt = now
	}
	cp.UpdatedAt = now
	s.resources[res.ID] = cp
}

// resourceLock возвращает мьютекс ресурса, создавая его при первом обращении
func (s *Store) resourceLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// insert сохраняет бронирование, повторно проверяя пересечения под записью
// (аналог exclusion constraint в PostgreSQL)
func (s *Store) insert(b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, resourceID := range b.ResourceIDs {
		if _, ok := s.resources[resourceID]; !ok {
			return nil, errResourceNotFound(resourceID)
		}
		for _, id := range s.byResource[resourceID] {
			existing := s.bookings[id]
			if existing.IsActive() && existing.Overlaps(b.StartDateTime, b.EndDateTime) {
				return nil, errSlotConflict(resourceID, existing.ID)
			}
		}
	}

	s.nextID++
	cp := copyBooking(b)
	cp.ID = s.nextID
	cp.CreatedAt = s.now()
	cp.UpdatedAt = cp.CreatedAt

	s.bookings[cp.ID] = cp
	for _, resourceID := range cp.ResourceIDs {
		s.byResource[resourceID] = append(s.byResource[resourceID], cp.ID)
	}

	return copyBooking(cp), nil
}

// sortedUnique сортирует ID ресурсов для захвата блокировок в едином порядке
func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

func copyResource(r *domain.Resource) *domain.Resource {
	cp := *r
	cp.SlotGrid = append([]string(nil), r.SlotGrid...)
	if r.AllowedWeekdays != nil {
		cp.AllowedWeekdays = append([]string(nil), r.AllowedWeekdays...)
	}
	return &cp
}

func copyBooking(b *domain.Booking) *domain.Booking {
	cp := *b
	cp.ResourceIDs = append([]string(nil), b.ResourceIDs...)
	if b.CustomerPhone != nil {
		v := *b.CustomerPhone
		cp.CustomerPhone = &v
	}
	if b.Notes != nil {
		v := *b.Notes
		cp.Notes = &v
	}
	if b.CancellationReason != nil {
		v := *b.CancellationReason
		cp.CancellationReason = &v
	}
	if b.CancelledAt != nil {
		v := *b.CancelledAt
		cp.CancelledAt = &v
	}
	return &cp
}
