package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pietervz/ipfire-tray/internal/config"
	"github.com/pietervz/ipfire-tray/internal/core"
	"github.com/pietervz/ipfire-tray/internal/core/auth"
	"github.com/pietervz/ipfire-tray/internal/core/metrics"
	"github.com/pietervz/ipfire-tray/internal/core/user"
	"github.com/pietervz/ipfire-tray/internal/ipfire"
	"github.com/pietervz/ipfire-tray/internal/logger"
	"github.com/pietervz/ipfire-tray/internal/storage/snapshot"
	"github.com/pietervz/ipfire-tray/internal/storage/sqlite"
	"github.com/pietervz/ipfire-tray/internal/telemetry"
	"github.com/pietervz/ipfire-tray/internal/transport/rest"
	"github.com/pietervz/ipfire-tray/internal/transport/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	appLog.Info("ipfiretray: starting", "router", cfg.RouterHost, "poll_interval", cfg.PollInterval)

	db, err := sqlite.NewSqliteDB(cfg.DBPath, appLog)
	if err != nil {
		appLog.Error("sqlite: failed to open", "error", err)
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLog.Error("sqlite: close failed", "error", err)
		}
	}()

	userRepo := sqlite.NewUserRepository(db)
	throughputRepo := sqlite.NewThroughputRepository(db)

	if err := user.NewService(userRepo, appLog).EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		appLog.Error("failed to ensure admin account", "error", err)
		return
	}

	tel := telemetry.New()
	store := snapshot.NewThroughputStore()
	hub := websocket.NewHub(appLog)

	throughputSvc := metrics.NewService(throughputRepo, store, tel, appLog, metrics.Options{
		HistoryRetention: cfg.HistoryRetention,
		SampleRetention:  cfg.SampleRetention,
		FlushInterval:    cfg.FlushInterval,
		FlushBatchSize:   cfg.FlushBatchSize,
	})

	provider := ipfire.NewProvider(ipfire.NewClient(ipfire.Config{
		Host:               cfg.RouterHost,
		Port:               cfg.RouterPort,
		Username:           cfg.RouterUsername,
		Password:           cfg.RouterPassword,
		InsecureSkipVerify: cfg.RouterSkipVerify,
		DialTimeout:        cfg.DialTimeout,
		ReadTimeout:        cfg.ReadTimeout,
	}), nil)

	sampler := core.NewSampler(provider, tel, appLog)
	sched := core.NewScheduler(cfg.PollInterval, appLog, sampler.Sample, func(rate ipfire.Rate) {
		snap := throughputSvc.Ingest(rate)
		hub.Emit("throughput.updated", snap)
	})

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		WS:         websocket.NewHandler(hub, cfg, appLog),
		Auth:       rest.NewAuthHandler(auth.NewService(userRepo, cfg), cfg),
		Throughput: rest.NewThroughputHandler(throughputSvc),
		Telemetry:  tel.Handler(),
	})
	srv := rest.NewServer(router, cfg.Address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gCtx)
	})

	g.Go(func() error {
		return sched.Run(gCtx)
	})

	g.Go(func() error {
		return throughputSvc.Run(gCtx)
	})

	g.Go(func() error {
		appLog.Info("http: starting server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	switch {
	case errors.Is(err, ipfire.ErrAuthRequired):
		appLog.Error("router rejected the configured credentials, check IPFIRE_USERNAME/IPFIRE_PASSWORD", "error", err)
	case err != nil && !errors.Is(err, context.Canceled):
		appLog.Error("daemon failed unexpectedly", "error", err)
	}

	appLog.Info("ipfiretray stopped")
}
