package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hospital-directory/config"
	deliveryHttp "go-hospital-directory/internal/delivery/http"
	"go-hospital-directory/internal/delivery/http/handler"
	"go-hospital-directory/internal/delivery/http/middleware"
	"go-hospital-directory/internal/infrastructure/cache"
	"go-hospital-directory/internal/infrastructure/database"
	"go-hospital-directory/internal/infrastructure/messaging"
	"go-hospital-directory/internal/repository"
	"go-hospital-directory/internal/service"
	"go-hospital-directory/internal/usecase"
	"go-hospital-directory/pkg/jwt"
	"go-hospital-directory/pkg/metrics"
	"go-hospital-directory/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Scheduler   *service.MaintenanceScheduler
	Publisher   service.EventPublisher
	Log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize all layers
	if err := app.initialize(cfg, db, redisClient, log); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)
	if cfg.IsDevelopment() {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initialize wires repositories, services, usecases and the HTTP server
func (app *App) initialize(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) error {
	m := metrics.NewMetrics("hospital_directory")

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	providerRepo := repository.NewProviderRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	documentRepo := repository.NewDocumentRepository()
	ratingRepo := repository.NewRatingRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	directoryCache := service.NewDirectoryCache(redisClient, cfg.Cache.TopHospitalsTTL, cfg.Cache.TopSpecialtiesTTL, log, m)
	tokenStore := service.NewTokenStore(redisClient)
	quota := service.NewAppointmentQuotaService(redisClient, log)
	publisher := messaging.NewEventPublisher(cfg.Kafka, log, m)
	app.Publisher = publisher

	// Initialize usecases
	providerUsecase := usecase.NewProviderUsecase(db, log, providerRepo, ratingRepo, auditService, directoryCache, publisher, cfg.App.QueryTimeout)
	registrationUsecase := usecase.NewRegistrationUsecase(db, log, providerRepo, specialtyRepo, documentRepo, ratingRepo, appointmentRepo, auditService, directoryCache, publisher, m)
	specialtyUsecase := usecase.NewSpecialtyUsecase(db, log, specialtyRepo, auditService, directoryCache)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, providerRepo, auditService, quota, publisher, cfg.Appointment, m)
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, auditService, jwtService, tokenStore)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Maintenance jobs
	scheduler := service.NewMaintenanceScheduler(log, m)
	if err := scheduler.Register("expire-appointments", cfg.Cron.ExpireAppointments, func(ctx context.Context) error {
		_, err := appointmentUsecase.ExpireStale(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("failed to schedule appointment expiry: %w", err)
	}
	if err := scheduler.Register("reconcile-counts", cfg.Cron.ReconcileCounts, func(ctx context.Context) error {
		_, err := registrationUsecase.ReconcileCounts(ctx)
		return err
	}); err != nil {
		return fmt.Errorf("failed to schedule counter reconciliation: %w", err)
	}
	app.Scheduler = scheduler

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	providerHandler := handler.NewProviderHandler(providerUsecase, customValidator)
	registrationHandler := handler.NewRegistrationHandler(registrationUsecase, customValidator)
	specialtyHandler := handler.NewSpecialtyHandler(specialtyUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log, m)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimit, m)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		providerHandler,
		registrationHandler,
		specialtyHandler,
		appointmentHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
		rateLimitMiddleware,
		m,
	)

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Scheduler.Start()

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Drain in-flight requests before stopping background work
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}
	app.Scheduler.Stop(ctx)

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close releases the publisher, database and redis connections
func (app *App) Close() {
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close event publisher: %v", err)
		}
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
