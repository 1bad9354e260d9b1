// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golf-booking/cmd"
	"golf-booking/internal/data/repository"
	"golf-booking/internal/gateway"
	"golf-booking/internal/usecase"
	"golf-booking/internal/wire"
	"golf-booking/pkg/database"
	"golf-booking/pkg/tracing"
	"golf-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, config.Tracing)
	if err != nil {
		logger.Warn("Tracing disabled", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Warn("Failed to flush traces", zap.Error(err))
			}
		}()
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	deps := usecase.Dependencies{
		Repo:    repository.NewRepository(db, logger),
		Tx:      repository.NewTransactor(db, logger),
		Payment: gateway.NewPaymentGatewayHttp(&http.Client{Timeout: config.Payment.Timeout}, config.Payment, logger),
	}

	// Idempotency keys survive restarts only with Redis
	redisClient, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		deps.Idempotency = gateway.NewIdempotencyGatewayMemory()
	} else {
		defer redisClient.Close()
		deps.Idempotency = gateway.NewIdempotencyGatewayRedis(redisClient)
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	}

	if config.RabbitMQ.Enabled {
		publisher, err := gateway.NewRabbitPublisher(config.RabbitMQ, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, reservation events will only be logged", zap.Error(err))
		} else {
			defer publisher.Close()
			deps.Events = publisher
		}
	}
	if deps.Events == nil {
		deps.Events = gateway.NewLogPublisher(logger)
	}

	// Wire all dependencies
	app := wire.Wiring(deps, config, logger)

	go app.Service.HoldSweeper.Run(ctx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
