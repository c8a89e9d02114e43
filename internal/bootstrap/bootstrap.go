// Package bootstrap wires configuration, the database, repositories,
// services, controllers and routes into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/liahub/liahub-backend/internal/app/auth"
	appControllers "github.com/liahub/liahub-backend/internal/app/controllers"
	"github.com/liahub/liahub-backend/internal/app/jobs"
	appMigrations "github.com/liahub/liahub-backend/internal/app/migrations"
	appRepos "github.com/liahub/liahub-backend/internal/app/repositories"
	appRoutes "github.com/liahub/liahub-backend/internal/app/routes"
	appServices "github.com/liahub/liahub-backend/internal/app/services"
	"github.com/liahub/liahub-backend/internal/config"
	"github.com/liahub/liahub-backend/internal/db"
	appMiddleware "github.com/liahub/liahub-backend/internal/middleware"
	pkgAuth "github.com/liahub/liahub-backend/internal/pkg/auth"
	"github.com/liahub/liahub-backend/internal/pkg/email"
	"github.com/liahub/liahub-backend/internal/pkg/filestorage"
	"github.com/liahub/liahub-backend/internal/pkg/helpers"
	"github.com/liahub/liahub-backend/internal/pkg/logger"
	"github.com/liahub/liahub-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	RecordService          *appServices.RecordService
	AssignmentService      *appServices.AssignmentService
	NotificationService    *appServices.NotificationService
	ImportService          *appServices.ImportService
	DashboardService       *appServices.DashboardService
	RecordController       *appControllers.RecordController
	ImportController       *appControllers.ImportController
	AssignmentController   *appControllers.AssignmentController
	DashboardController    *appControllers.DashboardController
	NotificationController *appControllers.NotificationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	AuthzService           *appAuth.AuthorizationService
	EmailService           email.EmailService
	FileStorage            *filestorage.LocalStorage
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.AuthzService = appAuth.NewAuthorizationService()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	smtpPort, _ := strconv.Atoi(cfg.SMTP.Port)
	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      smtpPort,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  "LiaHub",
		FromEmail: cfg.SMTP.From,
		UseTLS:    true,
	}, lgr)

	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.RecordRepository,
		deps.Repos.OrganizationRepository,
		deps.Repos.UserRepository,
		deps.Repos.NotificationRepository,
		deps.EmailService,
		lgr,
	)
	deps.RecordService = appServices.NewRecordService(
		deps.Repos.RecordRepository,
		deps.Repos.OrganizationRepository,
		deps.Repos.UserRepository,
		deps.Repos.ContractRepository,
		deps.AuthzService,
		deps.NotificationService,
		lgr,
	)
	deps.AssignmentService = appServices.NewAssignmentService(
		deps.Repos.RecordRepository,
		deps.AuthzService,
		deps.NotificationService,
		lgr,
	)
	deps.ImportService = appServices.NewImportService(
		deps.Repos.RecordRepository,
		deps.AuthzService,
		deps.NotificationService,
		lgr,
	)
	deps.DashboardService = appServices.NewDashboardService(
		deps.Repos.RecordRepository,
		deps.Repos.OrganizationRepository,
		deps.AuthzService,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.RecordController = appControllers.NewRecordController(deps.RecordService)
	deps.ImportController = appControllers.NewImportController(deps.ImportService, deps.FileStorage, lgr)
	deps.AssignmentController = appControllers.NewAssignmentController(deps.AssignmentService)
	deps.DashboardController = appControllers.NewDashboardController(deps.DashboardService)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.RecordController,
		deps.ImportController,
		deps.AssignmentController,
		deps.DashboardController,
		deps.NotificationController,
		deps.AuthMiddleware,
	)

	return router
}

// StartBackgroundJobs launches the workers that run alongside the server.
func StartBackgroundJobs(ctx context.Context, cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) {
	jobs.StartNotificationSweep(ctx, jobs.SweepConfig{
		Enabled:  cfg.Notifications.SweepEnabled,
		Interval: helpers.ParseDuration(cfg.Notifications.SweepInterval, 15*time.Minute),
		Timeout:  helpers.ParseDuration(cfg.Notifications.SweepTimeout, 30*time.Second),
	}, deps.NotificationService, lgr)
}
