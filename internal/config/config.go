package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	// База часовых поясов встроена: контейнер может не содержать /usr/share/zoneinfo
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrReadConfig возвращается, когда файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

const envPrefix = "VENUE_"

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Storage    StorageConfig    `toml:"storage"`
	Redis      RedisConfig      `toml:"redis"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Backoffice BackofficeConfig `toml:"backoffice"`
	Booking    BookingConfig    `toml:"booking"`
	Venue      VenueConfig      `toml:"venue"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int           `toml:"http_port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	CORSOrigins     []string      `toml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `toml:"host"`
	Port            int           `toml:"port"`
	User            string        `toml:"user"`
	Password        string        `toml:"password"`
	DBName          string        `toml:"dbname"`
	SSLMode         string        `toml:"sslmode"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// StorageConfig выбор хранилища: "postgres" или "memory"
type StorageConfig struct {
	Driver      string `toml:"driver"`
	CatalogFile string `toml:"catalog_file"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type BackofficeConfig struct {
	URL     string        `toml:"url"`
	Timeout time.Duration `toml:"timeout"`
}

type BookingConfig struct {
	CleaningBufferMinutes       int    `toml:"cleaning_buffer_minutes"`
	SlotGranularityMinutes      int    `toml:"slot_granularity_minutes"`
	MaxDurationHours            int    `toml:"max_duration_hours"`
	Timezone                    string `toml:"timezone"`
	AvailabilityCacheTTLSeconds int    `toml:"availability_cache_ttl_seconds"`
}

// Location часовой пояс площадки
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

// AvailabilityCacheTTL время жизни закешированной доступности
func (b BookingConfig) AvailabilityCacheTTL() time.Duration {
	return time.Duration(b.AvailabilityCacheTTLSeconds) * time.Second
}

// VenueConfig общая сетка слотов кафе (для мест без собственной сетки)
type VenueConfig struct {
	CafeSlotGrid []string `toml:"cafe_slot_grid"`
}

type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`
	// TrustForwardedFor брать IP клиента из X-Forwarded-For (только за доверенным proxy)
	TrustForwardedFor bool `toml:"trust_forwarded_for"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "venue_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Storage: StorageConfig{
			Driver:      "postgres",
			CatalogFile: "catalog.toml",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			ServiceName: "venue-booking",
			Path:        "/metrics",
		},
		Backoffice: BackofficeConfig{
			Timeout: 5 * time.Second,
		},
		Booking: BookingConfig{
			CleaningBufferMinutes:       5,
			SlotGranularityMinutes:      60,
			MaxDurationHours:            12,
			Timezone:                    "UTC",
			AvailabilityCacheTTLSeconds: 30,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			Burst:             10,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию,
// затем применяет переменные окружения VENUE_* (в том числе из .env)
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	// .env опционален
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("%w: storage.driver must be postgres or memory, got %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Booking.CleaningBufferMinutes < 0 {
		return fmt.Errorf("%w: booking.cleaning_buffer_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Booking.SlotGranularityMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_granularity_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.MaxDurationHours <= 0 {
		return fmt.Errorf("%w: booking.max_duration_hours must be positive", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	strVars := map[string]*string{
		"DB_HOST":          &c.Database.Host,
		"DB_USER":          &c.Database.User,
		"DB_PASSWORD":      &c.Database.Password,
		"DB_NAME":          &c.Database.DBName,
		"DB_SSLMODE":       &c.Database.SSLMode,
		"STORAGE_DRIVER":   &c.Storage.Driver,
		"CATALOG_FILE":     &c.Storage.CatalogFile,
		"REDIS_ADDR":       &c.Redis.Addr,
		"REDIS_PASSWORD":   &c.Redis.Password,
		"LOG_LEVEL":        &c.Logs.Level,
		"LOG_FILE":         &c.Logs.File,
		"BACKOFFICE_URL":   &c.Backoffice.URL,
		"BOOKING_TIMEZONE": &c.Booking.Timezone,
	}
	for name, dst := range strVars {
		if value, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = strings.TrimSpace(value)
		}
	}

	intVars := map[string]*int{
		"HTTP_PORT":                       &c.Server.HTTPPort,
		"DB_PORT":                         &c.Database.Port,
		"REDIS_DB":                        &c.Redis.DB,
		"BOOKING_CLEANING_BUFFER_MINUTES": &c.Booking.CleaningBufferMinutes,
		"BOOKING_MAX_DURATION_HOURS":      &c.Booking.MaxDurationHours,
	}
	for name, dst := range intVars {
		value, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, name, err)
		}
		*dst = n
	}

	boolVars := map[string]*bool{
		"REDIS_ENABLED":       &c.Redis.Enabled,
		"METRICS_ENABLED":     &c.Metrics.Enabled,
		"RATE_LIMIT_ENABLED":  &c.RateLimit.Enabled,
		"TRUST_FORWARDED_FOR": &c.RateLimit.TrustForwardedFor,
	}
	for name, dst := range boolVars {
		value, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, name, err)
		}
		*dst = b
	}

	return nil
}
