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

	addHealthRecordHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/add_health_record"
	bookAppointmentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/cancel_appointment"
	changeAvailabilityHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/change_availability"
	completeAppointmentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/complete_appointment"
	confirmPaymentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/confirm_payment"
	doctorDashboardHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/doctor_dashboard"
	getAppointmentHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_available_slots"
	getDoctorAppointmentsHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_doctor_appointments"
	getHealthRecordsHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_health_records"
	getPatientAppointmentsHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/get_patient_appointments"
	listDoctorsHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/list_doctors"
	updateDoctorProfileHandler "github.com/m04kA/HMS-AppointmentService/internal/api/handlers/update_doctor_profile"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	doctorRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/doctor"
	healthRecordRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/healthrecord"
	userServiceClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/userservice"
	appointmentsService "github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
	doctorsService "github.com/m04kA/HMS-AppointmentService/internal/service/doctors"
	healthRecordsService "github.com/m04kA/HMS-AppointmentService/internal/service/healthrecords"
	bookAppointmentUC "github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
	cancelAppointmentUC "github.com/m04kA/HMS-AppointmentService/internal/usecase/cancel_appointment"
	getAvailableSlotsUC "github.com/m04kA/HMS-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/logger"
	"github.com/m04kA/HMS-AppointmentService/pkg/metrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/HMS-AppointmentService/pkg/txmanager"
)

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

	log.Info("Starting HMS-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
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

	// Инициализируем клиента UserService
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("UserService client initialized (url=%s, timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		doctorRepository       *doctorRepo.Repository
		appointmentRepository  *appointmentRepo.Repository
		healthRecordRepository *healthRecordRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		doctorRepository = doctorRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		healthRecordRepository = healthRecordRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		doctorRepository = doctorRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		healthRecordRepository = healthRecordRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, log)
	doctorSvc := doctorsService.NewService(doctorRepository, log)
	healthRecordSvc := healthRecordsService.NewService(healthRecordRepository, appointmentRepository, log)

	// Инициализируем use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		doctorRepository,
		appointmentRepository,
		userClient,
		txMgr,
		log,
	)

	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		doctorRepository,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(doctorRepository, log)

	// Инициализируем handlers
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentSvc, log)
	confirmPayment := confirmPaymentHandler.NewHandler(appointmentSvc, log)
	doctorDashboard := doctorDashboardHandler.NewHandler(appointmentSvc, log)
	listDoctors := listDoctorsHandler.NewHandler(doctorSvc, log)
	changeAvailability := changeAvailabilityHandler.NewHandler(doctorSvc, log)
	updateDoctorProfile := updateDoctorProfileHandler.NewHandler(doctorSvc, log)
	addHealthRecord := addHealthRecordHandler.NewHandler(healthRecordSvc, log)
	getHealthRecords := getHealthRecordsHandler.NewHandler(healthRecordSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Справочник врачей
	api.HandleFunc("/doctors", listDoctors.Handle).Methods(http.MethodGet)

	// Доступные слоты врача на недельном горизонте
	api.HandleFunc("/doctors/{doctorId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Webhook платёжного провайдера
	api.HandleFunc("/payments/webhook", confirmPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret))

	// --- Записи на приём ---
	// Бронирование слота
	protected.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// Завершение приёма (врач)
	protected.HandleFunc("/appointments/{appointmentId}/complete",
		completeAppointment.Handle).Methods(http.MethodPatch)

	// История записей пациента
	protected.HandleFunc("/patients/{patientId}/appointments",
		getPatientAppointments.Handle).Methods(http.MethodGet)

	// --- Кабинет врача ---
	// Календарь врача
	protected.HandleFunc("/doctors/{doctorId}/appointments",
		getDoctorAppointments.Handle).Methods(http.MethodGet)

	// Дашборд врача
	protected.HandleFunc("/doctors/{doctorId}/dashboard",
		doctorDashboard.Handle).Methods(http.MethodGet)

	// Переключение доступности
	protected.HandleFunc("/doctors/{doctorId}/availability",
		changeAvailability.Handle).Methods(http.MethodPatch)

	// Частичное обновление профиля
	protected.HandleFunc("/doctors/{doctorId}", updateDoctorProfile.Handle).Methods(http.MethodPatch)

	// --- Медкарты ---
	// Добавление записи медкарты (врач)
	protected.HandleFunc("/health-records", addHealthRecord.Handle).Methods(http.MethodPost)

	// Медкарта пациента
	protected.HandleFunc("/patients/{patientId}/health-records",
		getHealthRecords.HandleByPatient).Methods(http.MethodGet)

	// Записи медкарты по приёму
	protected.HandleFunc("/appointments/{appointmentId}/health-records",
		getHealthRecords.HandleByAppointment).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
