package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/internal/handlers"
	"github.com/Ramsey-B/clover/pkg/actions"
	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/auth"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/forum"
	"github.com/Ramsey-B/clover/pkg/health"
	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/profile"
	"github.com/Ramsey-B/clover/pkg/providers"
	"github.com/Ramsey-B/clover/pkg/redis"
	"github.com/Ramsey-B/clover/pkg/register"
	"github.com/Ramsey-B/clover/pkg/repositories"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/tracing/exporters"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &config.Config{}
	if err := ectoenv.BindEnv(cfg); err != nil {
		panic(fmt.Sprintf("failed to bind config: %v", err))
	}

	logger := newLogger(cfg)
	logger.Infof("starting %s on port %d", cfg.AppName, cfg.Port)

	if cfg.TracingEnabled {
		provider := newTracerProvider(cfg, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = provider.Shutdown(ctx)
		}()
	}

	sqlxDB, err := connectDatabase(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("failed to connect to database")
		os.Exit(1)
	}
	defer sqlxDB.Close()

	migrations := database.NewMigrationService(database.MigrationConfig{
		Folder:       cfg.DatabaseMigrationFolderPath,
		DatabaseName: cfg.DatabaseName,
	}, sqlxDB, logger)
	if err := migrations.Up(); err != nil {
		logger.WithError(err).Error("failed to run migrations")
		os.Exit(1)
	}

	db := database.NewDatabaseInstance(sqlxDB, logger)
	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	var redisClient *redis.Client
	var locker *redis.Locker
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.WithError(err).Error("failed to connect to redis")
			os.Exit(1)
		}
		defer redisClient.Close()
		locker = redis.NewLocker(redisClient, "clover:")
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBrokers[0] != "" {
		producer = kafka.NewProducer(kafka.ParseConfig(strings.Join(cfg.KafkaBrokers, ","), cfg.KafkaEventsTopic), logger)
		defer producer.Close()
	}

	agentRepo := repositories.NewAgentRepository(db, logger)
	activityRepo := repositories.NewActivityRepository(db, logger)
	channelRepo := repositories.NewChannelRepository(db, logger)
	messageRepo := repositories.NewMessageRepository(db, logger)
	phoneRepo := repositories.NewPhoneRepository(db, logger)
	workflowRepo := repositories.NewWorkflowRepository(db, logger)
	assignmentRepo := repositories.NewAssignmentRepository(db, logger)
	businessRepo := repositories.NewBusinessRepository(db, logger)
	sessionRepo := repositories.NewSessionRepository(db, logger)

	recorder := activity.NewRecorder(activityRepo, producer, logger)
	forumService := forum.NewService(channelRepo, messageRepo, recorder, locker, logger)

	hc := httpclient.NewClient(httpclient.DefaultConfig(), logger)
	actionService := actions.NewService(actions.Deps{
		Agents:    agentRepo,
		Phones:    phoneRepo,
		Workflows: workflowRepo,
		Forum:     forumService,
		Recorder:  recorder,
		Brave:     providers.NewBraveClient(hc, cfg.BraveAPIKey, cfg.BraveSearchBaseURL, logger),
		Catalog:   providers.NewModelCatalog(hc, cfg.HuggingFaceToken, cfg.GeminiAPIKey, logger),
		N8n:       providers.NewN8nClient(hc, cfg.N8nBaseURL, cfg.N8nAPIKey, logger),
		Shopify:   providers.NewShopifyClient(hc, cfg.ShopifyAdminToken, cfg.ShopifyAPIVersion, logger),
		LiveKit:   providers.NewLiveKitIssuer(cfg.LiveKitAPIKey, cfg.LiveKitAPISecret, cfg.LiveKitWSURL, logger),
		TTS:       providers.NewTTSClient(hc, cfg.OpenAIAPIKey, cfg.ElevenLabsAPIKey, logger),
		Runner: providers.NewRemoteRunner(hc, providers.RunnerConfig{
			RunnerURL:   cfg.RemoteRunnerURL,
			RunnerToken: cfg.RemoteRunnerToken,
			SSHHost:     cfg.SSHHost,
			SSHUser:     cfg.SSHUser,
			SSHPort:     cfg.SSHPort,
		}, logger),
		Logger: logger,
	})
	registerService := register.NewService(agentRepo, sessionRepo, assignmentRepo, businessRepo, recorder, locker, cfg.PublicBaseURL, logger)
	authenticator := auth.NewAuthenticator(agentRepo, logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	handlers.NewBridgeHandler(authenticator, actionService, cfg.AgentAutomationSecret, logger).RegisterRoutes(e)
	handlers.NewRegisterHandler(registerService, cfg.SelfRegisterSecret, logger).RegisterRoutes(e)

	checker := health.NewChecker(db, redisClient, profile.Version)
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           e,
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		checker.SetReady(true)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("server stopped unexpectedly")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	checker.SetReady(false)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func newTracerProvider(cfg *config.Config, logger ectologger.Logger) *sdktrace.TracerProvider {
	var exporter sdktrace.SpanExporter = &exporters.ConsoleExporter{}
	if cfg.TracingExporter == "otlp" {
		otlpConfig := exporters.DefaultOTLPConfig()
		if cfg.TracingOTLPEndpoint != "" {
			otlpConfig.Endpoint = cfg.TracingOTLPEndpoint
		}
		otlpExporter, err := exporters.NewOTLPExporter(context.Background(), otlpConfig)
		if err != nil {
			logger.WithError(err).Warn("failed to create OTLP exporter, falling back to console")
		} else {
			exporter = otlpExporter
		}
	}
	return tracing.NewProvider(exporter, cfg.AppName)
}

func connectDatabase(cfg *config.Config, logger ectologger.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword,
		cfg.DatabaseName, cfg.DatabaseSSLMode)

	var db *sqlx.DB
	var err error
	for attempt := 1; attempt <= cfg.StartupMaxAttempts; attempt++ {
		db, err = sqlx.Connect(cfg.DatabaseDriver, dsn)
		if err == nil {
			return db, nil
		}
		logger.WithError(err).Warnf("database connection attempt %d/%d failed", attempt, cfg.StartupMaxAttempts)
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return nil, err
}
