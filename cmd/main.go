package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	admitBookingHandler "github.com/m04kA/SMC-VenueBooking/internal/api/handlers/admit_booking"
	cancelBookingHandler "github.com/m04kA/SMC-VenueBooking/internal/api/handlers/cancel_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-VenueBooking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-VenueBooking/internal/api/handlers/get_booking"
	getResourceHandler "github.com/m04kA/SMC-VenueBooking/internal/api/handlers/get_resource"
	listResourceBookingsHandler "github.com/m04kA/SMC-VenueBooking/internal/api/handlers/list_resource_bookings"
	listResourcesHandler "github.com/m04kA/SMC-VenueBooking/internal/api/handlers/list_resources"
	updateBookingStatusHandler "github.com/m04kA/SMC-VenueBooking/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-VenueBooking/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBooking/internal/api/ws"
	"github.com/m04kA/SMC-VenueBooking/internal/config"
	"github.com/m04kA/SMC-VenueBooking/internal/domain"
	"github.com/m04kA/SMC-VenueBooking/internal/infra/cache"
	"github.com/m04kA/SMC-VenueBooking/internal/infra/catalogfile"
	bookingRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBooking/internal/infra/storage/memory"
	resourceRepo "github.com/m04kA/SMC-VenueBooking/internal/infra/storage/resource"
	backofficeClient "github.com/m04kA/SMC-VenueBooking/internal/integrations/backoffice"
	"github.com/m04kA/SMC-VenueBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-VenueBooking/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-VenueBooking/internal/service/catalog"
	admitBookingUC "github.com/m04kA/SMC-VenueBooking/internal/usecase/admit_booking"
	getAvailabilityUC "github.com/m04kA/SMC-VenueBooking/internal/usecase/get_availability"
	"github.com/m04kA/SMC-VenueBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBooking/pkg/logger"
	"github.com/m04kA/SMC-VenueBooking/pkg/metrics"
	"github.com/m04kA/SMC-VenueBooking/pkg/txmanager"
)

// Хранилище, общее для драйверов postgres и memory
type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByResource(ctx context.Context, filter domain.ResourceBookingsFilter) ([]*domain.Booking, error)
	ActiveBookingsFor(ctx context.Context, resourceID string, from, to time.Time) ([]*domain.Booking, error)
	LockResources(ctx context.Context, resourceIDs []string) error
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

type resourceStore interface {
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context, kind *domain.ResourceKind, activeOnly bool) ([]*domain.Resource, error)
	Upsert(ctx context.Context, res *domain.Resource) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type availabilityCache interface {
	Lookup(ctx context.Context, q domain.SlotQuery) (*domain.AvailabilityResult, string, bool, error)
	Store(ctx context.Context, token string, result *domain.AvailabilityResult) error
	Invalidate(ctx context.Context, resourceID string) error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-VenueBooking...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Driver)

	venueLocation, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid venue timezone: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	var (
		bookingRepository  bookingStore
		resourceRepository resourceStore
		txMgr              txManager
		healthCheck        = func(ctx context.Context) error { return nil }
	)

	switch cfg.Storage.Driver {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		// При выключенных метриках обертка работает как обычный *sql.DB
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		healthCheck = db.PingContext

	case "memory":
		store := memory.NewStore()
		bookingRepository = memory.NewBookingRepository(store)
		resourceRepository = memory.NewResourceRepository(store)
		txMgr = memory.NewTxManager(store)
		log.Warn("Using in-memory storage: bookings are lost on restart")
	}

	// Загружаем каталог ресурсов
	if cfg.Storage.CatalogFile != "" {
		resources, err := catalogfile.Load(cfg.Storage.CatalogFile)
		if err != nil {
			log.Fatal("Failed to load resource catalog: %v", err)
		}
		if err := catalogfile.Seed(context.Background(), resourceRepository, resources, log); err != nil {
			log.Fatal("Failed to seed resource catalog: %v", err)
		}
	}

	// Кеш доступности (Redis опционален)
	var availCache availabilityCache = cache.Noop{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()

		if err != nil {
			log.Warn("Redis unavailable at %s, availability cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			availCache = cache.NewAvailabilityCache(redisClient, cfg.Booking.AvailabilityCacheTTL())
			log.Info("Availability cache enabled (redis=%s, ttl=%s)", cfg.Redis.Addr, cfg.Booking.AvailabilityCacheTTL())
		}
	}

	// Уведомления об изменении доступности
	hub := ws.NewHub(cfg.Server.CORSOrigins, log)
	notifier := availability.NewNotifier(availCache, hub, log)

	backoffice := backofficeClient.NewClient(cfg.Backoffice.URL, cfg.Backoffice.Timeout, log)
	if backoffice.Enabled() {
		log.Info("Back-office webhook enabled (url=%s, timeout=%s)", cfg.Backoffice.URL, cfg.Backoffice.Timeout)
	}

	engine := availability.NewEngine(time.Duration(cfg.Booking.SlotGranularityMinutes) * time.Minute)

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(resourceRepository, cfg.Venue.CafeSlotGrid, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalogSvc,
		txMgr,
		notifier,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	admitBookingUseCase := admitBookingUC.NewUseCase(
		catalogSvc,
		bookingRepository,
		engine,
		txMgr,
		notifier,
		backoffice,
		metricsCollector,
		admitBookingUC.Config{
			CleaningBufferMinutes: cfg.Booking.CleaningBufferMinutes,
			MaxDurationHours:      cfg.Booking.MaxDurationHours,
		},
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		catalogSvc,
		bookingRepository,
		engine,
		availCache,
		metricsCollector,
		cfg.Booking.MaxDurationHours,
		log,
	)

	// Инициализируем handlers
	admitBooking := admitBookingHandler.NewHandler(admitBookingUseCase, venueLocation, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, venueLocation, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	listResourceBookings := listResourceBookingsHandler.NewHandler(bookingSvc, venueLocation, log)
	getResource := getResourceHandler.NewHandler(catalogSvc, log)
	listResources := listResourcesHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := healthCheck(req.Context()); err != nil {
			log.Error("GET /health - Storage unavailable: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// Push-уведомления о смене доступности
	r.Handle("/ws/availability", hub).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Каталог и доступность ---
	api.HandleFunc("/resources", listResources.Handle).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}", getResource.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	var admit http.Handler = http.HandlerFunc(admitBooking.Handle)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.TrustForwardedFor)
		admit = limiter.Middleware(admit)
		log.Info("Admission rate limit enabled (%d/min, burst=%d, trust_forwarded_for=%t)",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.TrustForwardedFor)
	}
	api.Handle("/bookings", admit).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/{action:confirm|complete}", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Для персонала ---
	api.HandleFunc("/resources/{resourceId}/bookings", listResourceBookings.Handle).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
	}).Handler(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully (websocket clients=%d)", hub.Clients())
}
