package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"bathhouse-frontdesk/config"
	"bathhouse-frontdesk/internal/api"
	"bathhouse-frontdesk/internal/backend"
	"bathhouse-frontdesk/internal/cache"
	"bathhouse-frontdesk/internal/db"
	"bathhouse-frontdesk/internal/livesync"
	"bathhouse-frontdesk/internal/notification"
	"bathhouse-frontdesk/internal/poller"
	"bathhouse-frontdesk/internal/push"
	"bathhouse-frontdesk/internal/store"
	"bathhouse-frontdesk/internal/telemetry"
)

func main() {
	logger := log.New(os.Stdout, "frontdesk ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.WebPush.PublicKey,
		VAPIDPrivateKey: cfg.WebPush.PrivateKey,
		Subscriber:      cfg.WebPush.Subject,
		TTL:             cfg.WebPush.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("archive database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	cacheTTL := 5 * time.Minute
	if cfg.Server.CacheTTLSeconds > 0 {
		cacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	}
	requestCache := cache.New(cacheTTL, 10*time.Minute)

	hub := telemetry.NewHub(cfg.Telemetry.WindowSize)

	client := backend.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.BearerToken, cfg.Upstream.Timeout)

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, &webpushOptions)
	workerPool.Start(ctx)

	baseDelay := time.Duration(cfg.Push.BaseDelayMS) * time.Millisecond
	maxDelay := time.Duration(cfg.Push.MaxDelayMS) * time.Millisecond
	sensorCh := push.NewChannel("sensors", cfg.Push.SensorURL, baseDelay, maxDelay)
	alertCh := push.NewChannel("alerts", cfg.Push.AlertURL, baseDelay, maxDelay)

	sync := livesync.NewService(ctx, appStore, requestCache, hub, workerPool)
	sync.Bind(sensorCh, alertCh)

	if cfg.Push.Enabled {
		sensorCh.Connect(ctx)
		alertCh.Connect(ctx)
		defer sensorCh.Close()
		defer alertCh.Close()
	} else {
		logger.Println("push channels are disabled; running on polling alone")
	}

	pollSvc := poller.NewService(cfg, client, appStore, requestCache, hub, workerPool)
	go pollSvc.Run(ctx)

	handler := api.NewHandler(client, requestCache, appStore, hub, &webpushOptions, sensorCh, alertCh)
	router := api.NewRouter(&cfg.Server, handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
