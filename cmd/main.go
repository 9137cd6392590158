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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_reservation"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getClientReservationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_client_reservations"
	getPolicyHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_policy"
	getQueueHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_queue"
	getReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_reservation"
	getTeamMemberReservationsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_team_member_reservations"
	getWaitlistHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_waitlist"
	joinWaitlistHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/join_waitlist"
	queueActionHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/queue_action"
	queueCallNextHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/queue_call_next"
	queueCheckInHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/queue_check_in"
	rescheduleReservationHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/reschedule_reservation"
	submitReviewHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/submit_review"
	updatePolicyHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_policy"
	updateReservationStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_reservation_status"
	waitlistActionHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/waitlist_action"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/billing"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/directory"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifier"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	bookingService "github.com/m04kA/SMC-SchedulingService/internal/service/booking"
	policyService "github.com/m04kA/SMC-SchedulingService/internal/service/policy"
	queueService "github.com/m04kA/SMC-SchedulingService/internal/service/queue"
	resourcesService "github.com/m04kA/SMC-SchedulingService/internal/service/resources"
	reviewsService "github.com/m04kA/SMC-SchedulingService/internal/service/reviews"
	waitlistService "github.com/m04kA/SMC-SchedulingService/internal/service/waitlist"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SchedulingService/internal/worker"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// txManager менеджер транзакций, общий для бронирований и очереди
type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// engineDirectory справочник сотрудников, услуг и клиентов
type engineDirectory interface {
	bookingService.Directory
	queueService.Directory
	getAvailableSlotsUC.Directory
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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded (storage=%s)", cfg.Storage.Driver)

	// Метрики доменных сервисов нужны всегда; в глобальный реестр попадают только при metrics.enabled
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		metricsCollector = metrics.NewWithRegistry(prometheus.NewRegistry(), cfg.Metrics.ServiceName)
	}
	stopMetricsCh := make(chan struct{})

	// Инициализируем хранилище
	var (
		repos *repositories
		txMgr txManager
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		repos = newMemoryRepositories()
		txMgr = txmanager.Passthrough{}
		log.Warn("In-memory storage is used: data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		var observer dbmetrics.Observer
		if cfg.Metrics.Enabled {
			observer = metricsCollector
		}
		wrappedDB := dbmetrics.WrapWithDefault(db, observer, stopMetricsCh)

		repos = newPostgresRepositories(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	}

	// Инициализируем интеграционных клиентов
	var dir engineDirectory
	if cfg.Directory.Active() {
		dir = directory.NewClient(cfg.Directory.URL, time.Duration(cfg.Directory.Timeout)*time.Second, log)
		log.Info("Directory client initialized (url=%s timeout=%ds)", cfg.Directory.URL, cfg.Directory.Timeout)
	} else {
		dir = directory.NewStatic()
		log.Warn("Directory integration disabled: every team member lookup will fail")
	}

	var notify bookingService.Notifier = notifier.Nop{}
	if cfg.Notifier.Active() {
		client := notifier.NewClient(cfg.Notifier.URL, time.Duration(cfg.Notifier.Timeout)*time.Second, log)
		defer client.Close()
		notify = client
		log.Info("Notifier client initialized (url=%s timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	}

	var bill bookingService.Billing = billing.Disabled{}
	if cfg.Billing.Active() {
		bill = billing.NewClient(cfg.Billing.URL, time.Duration(cfg.Billing.Timeout)*time.Second)
		log.Info("Billing client initialized (url=%s timeout=%ds)", cfg.Billing.URL, cfg.Billing.Timeout)
	}

	// Инициализируем сервисы движка
	clk := clock.Real{}
	locks := keylock.New()

	policySvc := policyService.NewService(repos.policies, log)
	openHours := availabilityService.NewCalculator(repos.availability, log)
	allocator := resourcesService.NewAllocator(repos.resources, log)

	coordinator := bookingService.NewCoordinator(bookingService.Dependencies{
		Repo:      repos.reservations,
		Policies:  policySvc,
		Directory: dir,
		OpenHours: openHours,
		Allocator: allocator,
		TxManager: txMgr,
		Locks:     locks,
		Notifier:  notify,
		Billing:   bill,
		Metrics:   metricsCollector,
		Clock:     clk,
		Logger:    log,
	})

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		repos.reservations,
		policySvc,
		openHours,
		dir,
		clk,
		log,
	)

	matcher := waitlistService.NewMatcher(waitlistService.Dependencies{
		Repo:        repos.waitlist,
		Booker:      coordinator,
		Slots:       getAvailableSlotsUseCase,
		Policies:    policySvc,
		Notifier:    notify,
		Metrics:     metricsCollector,
		Clock:       clk,
		Logger:      log,
		Locks:       locks,
		HorizonDays: cfg.Engine.WaitlistHorizonDays,
	})
	coordinator.SetFreedSlotListener(matcher)

	dispatcher := queueService.NewDispatcher(queueService.Dependencies{
		Repo:         repos.queue,
		Reservations: coordinator,
		Directory:    dir,
		Policies:     policySvc,
		TxManager:    txMgr,
		Notifier:     notify,
		Metrics:      metricsCollector,
		Clock:        clk,
		Logger:       log,
		Locks:        locks,
	})

	reviewSvc := reviewsService.NewService(repos.reviews, coordinator, notify, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createReservation := createReservationHandler.NewHandler(coordinator, log)
	getReservation := getReservationHandler.NewHandler(coordinator, log)
	cancelReservation := cancelReservationHandler.NewHandler(coordinator, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(coordinator, log)
	rescheduleReservation := rescheduleReservationHandler.NewHandler(coordinator, log)
	getClientReservations := getClientReservationsHandler.NewHandler(coordinator, log)
	getTeamMemberReservations := getTeamMemberReservationsHandler.NewHandler(coordinator, log)
	getPolicy := getPolicyHandler.NewHandler(policySvc, log)
	updatePolicy := updatePolicyHandler.NewHandler(policySvc, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(matcher, log)
	waitlistAction := waitlistActionHandler.NewHandler(matcher, log)
	getWaitlist := getWaitlistHandler.NewHandler(matcher, log)
	queueCheckIn := queueCheckInHandler.NewHandler(dispatcher, log)
	queueCallNext := queueCallNextHandler.NewHandler(dispatcher, log)
	queueAction := queueActionHandler.NewHandler(dispatcher, log)
	getQueue := getQueueHandler.NewHandler(dispatcher, log)
	submitReview := submitReviewHandler.NewHandler(reviewSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestLogging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты сотрудника
	api.HandleFunc("/accounts/{accountId}/team-members/{teamMemberId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Действующая политика аккаунта
	api.HandleFunc("/accounts/{accountId}/policy", getPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/reschedule", rescheduleReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/review", submitReview.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/review", submitReview.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/accounts/{accountId}/clients/{clientId}/reservations", getClientReservations.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/team-members/{teamMemberId}/reservations", getTeamMemberReservations.Handle).Methods(http.MethodGet)

	// --- Лист ожидания ---
	protected.HandleFunc("/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/waitlist/{entryId}", waitlistAction.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/waitlist/{entryId}/{action}", waitlistAction.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/accounts/{accountId}/waitlist", getWaitlist.Handle).Methods(http.MethodGet)

	// --- Живая очередь ---
	protected.HandleFunc("/queue/check-in", queueCheckIn.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/queue/{itemId}", queueAction.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/queue/{itemId}/{action}", queueAction.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/accounts/{accountId}/queue", getQueue.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/accounts/{accountId}/queue/call-next", queueCallNext.Handle).Methods(http.MethodPost)

	// --- Управление (для сотрудников) ---
	protected.HandleFunc("/accounts/{accountId}/policy", updatePolicy.Handle).Methods(http.MethodPut)

	// Фоновые проходы листа ожидания и очереди
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	sweeper := worker.NewSweeper(matcher, dispatcher, worker.Config{
		WaitlistInterval: time.Duration(cfg.Engine.WaitlistSweepIntervalSeconds) * time.Second,
		QueueInterval:    time.Duration(cfg.Engine.QueueSweepIntervalSeconds) * time.Second,
		QueueBatch:       cfg.Engine.QueueSweepBatch,
	}, log)
	workersDone := make(chan struct{})
	go func() {
		sweeper.Start(workerCtx)
		close(workersDone)
	}()

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновые проходы и сбор метрик connection pool
	stopWorkers()
	select {
	case <-workersDone:
	case <-shutdownCtx.Done():
		log.Warn("Background sweeps did not stop in time")
	}
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
