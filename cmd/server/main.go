package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"namemarket/internal/jwt_token"
	"namemarket/internal/platform/config"
	"namemarket/internal/platform/httpserver"
	"namemarket/internal/platform/logger"
	platformmetrics "namemarket/internal/platform/metrics"
	platformredis "namemarket/internal/platform/redis"
	"namemarket/internal/registry/cache"
	registryhandler "namemarket/internal/registry/handler"
	regmetrics "namemarket/internal/registry/metrics"
	"namemarket/internal/registry/service"
	domainstore "namemarket/internal/registry/store/domainrec"
	ipstore "namemarket/internal/registry/store/ip"
	ledgerstore "namemarket/internal/registry/store/ledger"
	httptransport "namemarket/internal/transport/http"
	id "namemarket/pkg/domain"
	"namemarket/pkg/platform/events"
	eventspublisher "namemarket/pkg/platform/events/publisher"
	eventsmemory "namemarket/pkg/platform/events/store/memory"
	eventspostgres "namemarket/pkg/platform/events/store/postgres"
	"namemarket/pkg/platform/tx"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/registry.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	admin, err := id.ParsePrincipal(cfg.AdminPrincipal)
	if err != nil {
		log.Error("invalid admin principal", "error", err.Error())
		os.Exit(1)
	}

	var (
		ips      service.IPStore
		domains  service.DomainStore
		ledger   service.LedgerStore
		eventsSt events.Store
		txRunner tx.Runner
		sqlDB    *sql.DB
	)
	if cfg.PostgresDSN != "" {
		sqlDB, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err.Error())
			os.Exit(1)
		}
		if err := sqlDB.Ping(); err != nil {
			log.Error("postgres ping failed", "error", err.Error())
			os.Exit(1)
		}
		ips = ipstore.NewPostgres(sqlDB)
		domains = domainstore.NewPostgres(sqlDB)
		ledger = ledgerstore.NewPostgres(sqlDB)
		eventsSt = eventspostgres.New(sqlDB)
		txRunner = tx.NewSQLRunner(sqlDB)
		log.Info("using postgres-backed registry stores")
	} else {
		ips = ipstore.NewInMemory()
		domains = domainstore.NewInMemory()
		ledger = ledgerstore.NewInMemory()
		eventsSt = eventsmemory.NewInMemoryStore()
		txRunner = tx.NewMemoryRunner()
		log.Info("using in-memory registry stores")
	}

	publisherOpts := []eventspublisher.Option{eventspublisher.WithLogger(log)}
	if cfg.EventBuffer > 0 {
		publisherOpts = append(publisherOpts, eventspublisher.WithAsyncBuffer(cfg.EventBuffer))
	}
	publisher := eventspublisher.NewPublisher(eventsSt, publisherOpts...)
	defer publisher.Close()

	serviceOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(regmetrics.New()),
		service.WithEventPublisher(publisher),
		service.WithTxRunner(txRunner),
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		serviceOpts = append(serviceOpts,
			service.WithCache(cache.NewRedisCache(redisClient.Client, config.DomainCacheTTL)))
		log.Info("domain read cache enabled")
	}

	registry := service.New(ips, domains, ledger, admin, cfg.DomainPrice, serviceOpts...)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "namemarket", "namemarket-api")
	handler := registryhandler.New(registry, log, platformmetrics.New(), jwtService)
	router := httptransport.NewRouter(handler)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting namemarket", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	if sqlDB != nil {
		_ = sqlDB.Close()
	}
}
