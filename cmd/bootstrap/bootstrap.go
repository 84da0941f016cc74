package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/khallude/healthify-booking/config"
	deliveryHttp "github.com/khallude/healthify-booking/internal/delivery/http"
	"github.com/khallude/healthify-booking/internal/delivery/http/handler"
	"github.com/khallude/healthify-booking/internal/delivery/http/middleware"
	"github.com/khallude/healthify-booking/internal/domain/entity"
	"github.com/khallude/healthify-booking/internal/infrastructure/cache"
	"github.com/khallude/healthify-booking/internal/infrastructure/database"
	"github.com/khallude/healthify-booking/internal/repository"
	"github.com/khallude/healthify-booking/internal/scheduler"
	"github.com/khallude/healthify-booking/internal/service"
	"github.com/khallude/healthify-booking/internal/usecase"
	"github.com/khallude/healthify-booking/pkg/jwt"
	"github.com/khallude/healthify-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Dispatcher  *scheduler.Dispatcher
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logrus.Info("Database connected and migrated successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	app.Server, app.Dispatcher = initialize(cfg, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// migrate keeps the schema in sync with the entities, including the
// composite unique slot index the booking path depends on.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Patient{},
		&entity.Doctor{},
		&entity.Appointment{},
		&entity.Reminder{},
	)
}

// initialize wires every layer and returns the HTTP server and the
// reminder dispatcher.
func initialize(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *scheduler.Dispatcher) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	patientRepo := repository.NewPatientRepository(db)

	// Initialize services
	slotService := service.NewSlotService()
	reminderEngine := service.NewReminderEngine()
	bookedTimesCache := service.NewRedisBookedTimesCache(redisClient, log)
	mailer := service.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, doctorRepo, patientRepo, slotService, bookedTimesCache, mailer, cfg.App.OpsMailbox)
	reminderUsecase := usecase.NewReminderUsecase(log, reminderRepo, patientRepo)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorRepo)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	reminderHandler := handler.NewReminderHandler(reminderUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, reminderHandler, doctorHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Initialize reminder dispatcher
	dispatcher := scheduler.NewDispatcher(log, reminderRepo, patientRepo, reminderEngine, mailer)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.App.Port),
		Handler: httpRouter,
	}
	return server, dispatcher
}

// Run starts the HTTP server and the reminder dispatcher, then handles
// graceful shutdown.
func (app *App) Run() {
	if err := app.Dispatcher.Start(app.Config.Reminder.TickSpec); err != nil {
		logrus.Fatalf("Failed to start reminder dispatcher: %v", err)
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
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

	logrus.Info("Shutting down server...")

	// Stop ticking before closing the connections a tick might use.
	app.Dispatcher.Stop()

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
