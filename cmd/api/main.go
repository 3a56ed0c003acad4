package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/reseller-dashboard/internal/clock"
	"github.com/ariefcatur/reseller-dashboard/internal/config"
	"github.com/ariefcatur/reseller-dashboard/internal/httpx"
	kafkax "github.com/ariefcatur/reseller-dashboard/internal/kafka"
	"github.com/ariefcatur/reseller-dashboard/internal/ledger"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
	"github.com/ariefcatur/reseller-dashboard/internal/postgres"
	"github.com/ariefcatur/reseller-dashboard/internal/redisx"
	"github.com/ariefcatur/reseller-dashboard/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis serves the status cache and, optionally, storage.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		pctx, pcancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			log.Printf("redis unavailable at %s: %v", cfg.RedisAddr, err)
			rdb = nil
		}
		pcancel()
	}

	kv, closeKV, err := openKV(ctx, cfg, rdb)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer closeKV()

	clk := clock.NewSystem()
	store, rep, err := orders.Open(ctx, kv, clk)
	if err != nil {
		log.Fatalf("load store: %v", err)
	}
	log.Printf("store ready: backend=%s offers=%d orders=%d relinked=%d propagated=%d",
		cfg.StorageBackend, len(store.Offers()), len(store.Orders()), rep.Relinked, rep.Propagated)

	pay, err := ledger.Open(ctx, kv, clk)
	if err != nil {
		log.Fatalf("load payments: %v", err)
	}

	details, err := config.LoadPaymentDetails(cfg.PaymentDetailsFile)
	if err != nil {
		log.Fatalf("payment details: %v", err)
	}

	srv := &httpx.Server{
		Store:          store,
		Ledger:         pay,
		Clock:          clk,
		Location:       cfg.Location(),
		Service:        cfg.ServiceName,
		PaymentDetails: details,
	}
	if rdb != nil {
		srv.Status = redisx.NewStatusCache(rdb)
	}

	var prod *kafkax.Producer
	if cfg.EventsEnabled() {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024)
		prod.Start(ctx)
		srv.Events = prod
	} else {
		log.Println("KAFKA_BROKERS empty, domain events disabled")
	}

	router := httpx.NewRouter()
	srv.Register(router)

	hs := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = hs.Shutdown(ctx2)
	if prod != nil {
		prod.Close()
		prod.WaitClosed()
	}
}

// openKV picks the storage backend named by STORAGE_BACKEND.
func openKV(ctx context.Context, cfg config.Config, rdb *redis.Client) (storage.KV, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemory(), noop, nil
	case config.BackendFile:
		f, err := storage.OpenFile(cfg.StorageFile)
		if err != nil {
			return nil, noop, err
		}
		return f, func() { _ = f.Close() }, nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, noop, errors.New("redis backend selected but redis is unavailable")
		}
		return redisx.NewKV(rdb), noop, nil
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, postgres.Pool{
			MaxConns:       cfg.PostgresMaxConns,
			ConnectTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, noop, err
		}
		kv := postgres.NewKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return kv, db.Close, nil
	default:
		return nil, noop, errors.New("unknown STORAGE_BACKEND " + cfg.StorageBackend)
	}
}
