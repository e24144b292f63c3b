package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cafeteria/internal/auth"
	"cafeteria/internal/cart"
	"cafeteria/internal/catalog"
	"cafeteria/internal/commons"
	"cafeteria/internal/config"
	"cafeteria/internal/events"
	"cafeteria/internal/infrastructure/logger"
	"cafeteria/internal/infrastructure/mysql"
	redisinfra "cafeteria/internal/infrastructure/redis"
	"cafeteria/internal/infrastructure/telemetry"
	"cafeteria/internal/notify"
	"cafeteria/internal/order"
	"cafeteria/internal/payment"
	"cafeteria/internal/server"
	"cafeteria/internal/staff"
)

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Telemetry.ServiceName)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	shutdownTracing, err := telemetry.Setup(cfg.Telemetry, zapLogger)
	if err != nil {
		zapLogger.Fatal("setting up tracing", zap.Error(err))
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	err = mysql.EnsureSchema(schemaCtx, db)
	cancelSchema()
	if err != nil {
		zapLogger.Fatal("ensuring schema", zap.Error(err))
	}

	var feed notify.Feed
	if cfg.Redis.Addr != "" {
		client, err := redisinfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer client.Close()
		feed = notify.NewRedisFeed(client, cfg.Redis.Prefix, zapLogger.Named("notify"))
		zapLogger.Info("order notifications over redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		feed = notify.NewMemoryFeed()
		zapLogger.Info("order notifications in process")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger.Named("events"))
		zapLogger.Info("publishing order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	tokens := auth.NewTokenService(cfg.Auth, time.Now)
	enforcer, err := auth.NewEnforcer()
	if err != nil {
		zapLogger.Fatal("creating rbac enforcer", zap.Error(err))
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()

	sessions := cart.NewSessionsWithTTL(cfg.Cart.IdleTTL, time.Now)
	go sessions.Run(sweepCtx, cfg.Cart.SweepInterval, zapLogger.Named("cart"))
	catalogModule := catalog.NewModule(db, zapLogger)
	cartCtrl := cart.NewController(sessions, catalogModule.Reader, zapLogger.Named("cart"))

	orderModule, err := order.NewModule(db, cfg, feed, publisher, sessions, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating order module", zap.Error(err))
	}

	staffModule, err := staff.NewModule(db, tokens, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating staff module", zap.Error(err))
	}

	router := server.NewRouter(server.Handlers{
		Catalog:  catalogModule.Controller,
		Cart:     cartCtrl,
		Orders:   orderModule.Controller,
		Staff:    staffModule.Controller,
		Payments: payment.NewController(zapLogger.Named("payment")),
	}, server.Security{Tokens: tokens, Enforcer: enforcer}, cfg.Telemetry.ServiceName, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}

	if err := publisher.Close(); err != nil {
		zapLogger.Error("closing event publisher", zap.Error(err))
	}

	if err := shutdownTracing(ctx); err != nil {
		zapLogger.Error("flushing traces", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
