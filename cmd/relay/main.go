package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/repository/outbox"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[relay] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if len(cfg.KafkaBrokers) == 0 {
		logger.Println("KAFKA_BROKERS not set, relay disabled")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	writer := events.NewWriter(cfg.KafkaBrokers)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Printf("close writer: %v", err)
		}
	}()

	relay := events.NewRelay(outbox.NewStore(pool), writer, logger)
	logger.Printf("relaying outbox to %v every %s", cfg.KafkaBrokers, cfg.RelayInterval)
	if err := relay.Run(ctx, cfg.RelayInterval); err != nil {
		logger.Fatalf("relay: %v", err)
	}
	logger.Println("relay stopped")
}
