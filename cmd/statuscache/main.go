package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/reseller-dashboard/internal/config"
	kafkax "github.com/ariefcatur/reseller-dashboard/internal/kafka"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
	"github.com/ariefcatur/reseller-dashboard/internal/redisx"
	"github.com/ariefcatur/reseller-dashboard/internal/statuscache"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if !cfg.EventsEnabled() {
		log.Fatalf("statuscache: KAFKA_BROKERS is empty")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	svc := &statuscache.Service{
		Cache:       redisx.NewStatusCache(rdb),
		ServiceName: cfg.StatusCacheGroup,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.StatusCacheGroup, orders.TopicOrderStatusChanged, cfg.StatusCacheWorkers)
	log.Printf("statuscache consumer started: group=%s topic=%s workers=%d",
		cfg.StatusCacheGroup, orders.TopicOrderStatusChanged, cfg.StatusCacheWorkers)
	if err := cons.Start(ctx, svc.HandleOrderStatusChanged); err != nil {
		log.Fatalf("consumer exit: %v", err)
	}
	log.Println("statuscache stopped")
}
