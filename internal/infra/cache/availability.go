package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-VenueBooking/internal/domain"
)

const (
	keyPrefix     = "availability"
	versionPrefix = "availability:version"
)

var (
	// ErrCacheRead возвращается при ошибке чтения из Redis
	ErrCacheRead = errors.New("cache: failed to read")

	// ErrCacheWrite возвращается при ошибке записи в Redis
	ErrCacheWrite = errors.New("cache: failed to write")
)

// AvailabilityCache кэш результатов доступности в Redis
// Ключ результата включает версии всех ресурсов запроса; Invalidate увеличивает
// версию ресурса, поэтому устаревшие записи больше не читаются и истекают по TTL.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilityCache создает кэш доступности
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

type cachedSeat struct {
	BlockedSlots []string `json:"blockedSlots"`
	FullyBooked  bool     `json:"fullyBooked"`
	Available    *bool    `json:"available,omitempty"`
}

type cachedResult struct {
	DateAvailable bool                   `json:"dateAvailable"`
	BlockedSlots  []string               `json:"blockedSlots"`
	FullyBooked   bool                   `json:"fullyBooked"`
	Seats         map[string]*cachedSeat `json:"seats,omitempty"`
}

// Lookup ищет результат запроса в кэше
// Возвращает токен, под которым результат нужно сохранить при промахе.
func (c *AvailabilityCache) Lookup(ctx context.Context, q domain.SlotQuery) (*domain.AvailabilityResult, string, bool, error) {
	versionKeys := make([]string, len(q.ResourceIDs))
	for i, id := range q.ResourceIDs {
		versionKeys[i] = versionKey(id)
	}

	versions, err := c.client.MGet(ctx, versionKeys...).Result()
	if err != nil {
		return nil, "", false, fmt.Errorf("%w: versions: %v", ErrCacheRead, err)
	}

	token := resultKey(q, versions)

	raw, err := c.client.Get(ctx, token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, token, false, nil
	}
	if err != nil {
		return nil, token, false, fmt.Errorf("%w: result: %v", ErrCacheRead, err)
	}

	var cached cachedResult
	if err := json.Unmarshal(raw, &cached); err != nil {
		// Поврежденная запись считается промахом
		return nil, token, false, nil
	}

	return cached.toDomain(), token, true, nil
}

// Store сохраняет результат под токеном, полученным из Lookup
func (c *AvailabilityCache) Store(ctx context.Context, token string, result *domain.AvailabilityResult) error {
	if token == "" || result == nil {
		return nil
	}

	data, err := json.Marshal(fromDomain(result))
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrCacheWrite, err)
	}

	if err := c.client.Set(ctx, token, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Invalidate делает недействительными все закэшированные результаты ресурса
func (c *AvailabilityCache) Invalidate(ctx context.Context, resourceID string) error {
	if err := c.client.Incr(ctx, versionKey(resourceID)).Err(); err != nil {
		return fmt.Errorf("%w: invalidate %s: %v", ErrCacheWrite, resourceID, err)
	}
	return nil
}

func versionKey(resourceID string) string {
	return versionPrefix + ":" + resourceID
}

func resultKey(q domain.SlotQuery, versions []interface{}) string {
	parts := make([]string, len(q.ResourceIDs))
	for i, id := range q.ResourceIDs {
		v := "0"
		if s, ok := versions[i].(string); ok {
			v = s
		}
		parts[i] = id + "@" + v
	}

	return fmt.Sprintf("%s:%s:%s:%d:%s",
		keyPrefix,
		strings.Join(parts, ","),
		q.Date.Format(domain.DateFormat),
		q.DurationHours,
		q.SlotLabel,
	)
}

func fromDomain(r *domain.AvailabilityResult) cachedResult {
	cached := cachedResult{
		DateAvailable: r.DateAvailable,
		BlockedSlots:  r.BlockedSlots,
		FullyBooked:   r.FullyBooked,
	}
	if r.Seats != nil {
		cached.Seats = make(map[string]*cachedSeat, len(r.Seats))
		for id, s := range r.Seats {
			cached.Seats[id] = &cachedSeat{BlockedSlots: s.BlockedSlots, FullyBooked: s.FullyBooked, Available: s.Available}
		}
	}
	return cached
}

func (c cachedResult) toDomain() *domain.AvailabilityResult {
	result := &domain.AvailabilityResult{
		DateAvailable: c.DateAvailable,
		BlockedSlots:  c.BlockedSlots,
		FullyBooked:   c.FullyBooked,
	}
	if result.BlockedSlots == nil {
		result.BlockedSlots = []string{}
	}
	if c.Seats != nil {
		result.Seats = make(map[string]*domain.SeatAvailability, len(c.Seats))
		for id, s := range c.Seats {
			blocked := s.BlockedSlots
			if blocked == nil {
				blocked = []string{}
			}
			result.Seats[id] = &domain.SeatAvailability{BlockedSlots: blocked, FullyBooked: s.FullyBooked, Available: s.Available}
		}
	}
	return result
}
