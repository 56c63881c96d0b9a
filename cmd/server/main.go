package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stockledger/lot-service/internal/api"
	"github.com/stockledger/lot-service/internal/cache"
	"github.com/stockledger/lot-service/internal/config"
	"github.com/stockledger/lot-service/internal/database"
	"github.com/stockledger/lot-service/internal/kafka"
	"github.com/stockledger/lot-service/internal/ledger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		logger.Fatalf("failed to run migrations: %v", err)
	}

	var summaryCache ledger.SummaryCache
	var invalidator ledger.SummaryInvalidator
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		c := cache.New(redisClient, time.Duration(cfg.Redis.SummaryTTLSeconds)*time.Second)
		summaryCache = c
		invalidator = c
	}

	processor := ledger.NewProcessor(db, invalidator)
	summarizer := ledger.NewSummarizer(db, summaryCache)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ResultTopic)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.RequestTopic, cfg.Kafka.GroupID, processor, logger)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.WithError(err).Error("kafka consumer stopped")
		}
	}()

	handler := api.NewHandler(db, processor, summarizer, producer, logger)
	router := api.SetupRoutes(handler)

	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http server shutdown")
	}
	logger.Info("shutdown complete")
}
