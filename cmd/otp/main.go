package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/piresc/fraudguard/internal/pkg/config"
	"github.com/piresc/fraudguard/internal/pkg/health"
	"github.com/piresc/fraudguard/internal/pkg/logger"
	"github.com/piresc/fraudguard/internal/pkg/middleware"
	natspkg "github.com/piresc/fraudguard/internal/pkg/nats"
	nrpkg "github.com/piresc/fraudguard/internal/pkg/newrelic"
	"github.com/piresc/fraudguard/internal/pkg/otp"
	"github.com/piresc/fraudguard/internal/pkg/retry"
	"github.com/piresc/fraudguard/internal/pkg/server"
	"github.com/piresc/fraudguard/internal/pkg/validator"
	wspkg "github.com/piresc/fraudguard/internal/pkg/websocket"
	"github.com/piresc/fraudguard/services/auth/gateway"
	"github.com/piresc/fraudguard/services/auth/handler"
	httpHandler "github.com/piresc/fraudguard/services/auth/handler/http"
	wsHandler "github.com/piresc/fraudguard/services/auth/handler/websocket"
	"github.com/piresc/fraudguard/services/auth/usecase"
	"go.uber.org/zap"
)

func main() {
	configPath := config.GetEnv("CONFIG_PATH", "config/otp.env")
	configs := config.InitConfig(configPath)
	appName := configs.App.Name

	// Initialize New Relic and Zap logger
	nrApp := nrpkg.InitNewRelic(configs)
	if nrApp != nil {
		if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
			log.Printf("Warning: New Relic connection timeout: %v", err)
		}
	}

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	logger.SetGlobalLogger(zapLogger)

	if path := zapLogger.GetFilePath(); path != "" {
		zapLogger.Info("Writing logs to file", zap.String("path", path))
	}

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
		zap.Bool("demo_mode", configs.OTP.DemoMode),
	)

	if configs.JWT.Secret == "" {
		zapLogger.Fatal("JWT_SECRET must be set to issue session tokens")
	}

	shutdown := server.NewShutdownManager(zapLogger)
	healthService := health.NewHealthService()

	// Initialize NATS, optional
	var natsClient *natspkg.Client
	if configs.NATS.URL != "" {
		err = retry.NewWithDefaults(zapLogger).Execute(context.Background(), "nats connect", func(context.Context) error {
			var connErr error
			natsClient, connErr = natspkg.NewClient(configs.NATS.URL, appName)
			return connErr
		})
		if err != nil {
			zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		healthService.AddChecker("nats", health.NewNATSHealthChecker(natsClient))
	} else {
		zapLogger.Warn("NATS_URL not set, OTP events will not be published")
	}

	// Initialize Gateway
	authGW := gateway.NewAuthGW(natsClient)

	// Initialize UseCase
	authUC := usecase.NewAuthUC(configs, authGW, otp.SystemClock())

	// Handlers
	manager := wspkg.NewManager()
	authHandler := httpHandler.NewAuthHandler(authUC)
	countdownHandler := wsHandler.NewCountdownHandler(authUC, manager)
	Handler := handler.NewHandler(authHandler, countdownHandler, configs)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	v, err := validator.New()
	if err != nil {
		zapLogger.Fatal("Failed to create validator", zap.Error(err))
	}
	e.Validator = v

	// Add middlewares
	if nrApp != nil {
		e.Use(nrecho.Middleware(nrApp))
	}
	e.Use(echomw.RequestID())
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	// Register health endpoints
	health.RegisterHealthEndpoints(e, appName, configs.App.Version, healthService)

	// Register service routes
	Handler.RegisterRoutes(e)

	// Components close in registration order once the listener has stopped
	shutdown.Register("websockets", func(context.Context) error {
		zapLogger.Info("Closing countdown sockets", zap.Int("open", manager.Count()))
		manager.CloseAll()
		return nil
	})
	shutdown.Register("sessions", authUC.Shutdown)
	if natsClient != nil {
		shutdown.Register("nats", func(context.Context) error {
			natsClient.Close()
			return nil
		})
	}
	if nrApp != nil {
		shutdown.Register("newrelic", func(context.Context) error {
			nrApp.Shutdown(10 * time.Second)
			return nil
		})
	}
	shutdown.Register("logger", func(context.Context) error {
		return zapLogger.Close()
	})

	gs := server.NewGracefulServer(e, zapLogger, configs.Server, shutdown)
	if err := gs.Start(); err != nil {
		zapLogger.Fatal("Server stopped with error",
			zap.String("app", appName),
			zap.Error(err),
		)
	}
}
