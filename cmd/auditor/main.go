// Command auditor writes every domain lifecycle event to the structured log.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/mallikarjuna-sindiri/sendy/internal/config"
	"github.com/mallikarjuna-sindiri/sendy/internal/log"
	"github.com/mallikarjuna-sindiri/sendy/internal/queue"
	"go.uber.org/zap"
)

const workers = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := log.Init(cfg.Dev())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.RabbitURL == "" {
		logger.Fatal("RABBIT_URL is required")
	}

	cons, err := queue.NewConsumer(cfg.RabbitURL, cfg.RabbitExchange, cfg.RabbitQueue, queue.EventKeys...)
	if err != nil {
		logger.Fatal("rabbit consumer init failed", zap.Error(err))
	}
	defer cons.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("auditor up",
		zap.String("exchange", cfg.RabbitExchange),
		zap.String("queue", cfg.RabbitQueue),
		zap.Int("workers", workers))

	if err := cons.Consume(ctx, workers, audit(logger)); err != nil {
		logger.Fatal("consumer stopped", zap.Error(err))
	}
}

func audit(l *zap.Logger) func(queue.Delivery) error {
	return func(d queue.Delivery) error {
		var event map[string]any
		if err := json.Unmarshal(d.Body, &event); err != nil {
			// malformed bodies are acked and dropped
			l.Warn("undecodable event", zap.String("key", d.Key), zap.Error(err))
			return nil
		}
		l.Info("domain event",
			zap.String("key", d.Key),
			zap.String("request_id", d.RequestID),
			zap.Any("event", event))
		return nil
	}
}
