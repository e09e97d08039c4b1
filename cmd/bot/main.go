package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/serz/food-daily-bot/internal/bot"
	"github.com/serz/food-daily-bot/internal/config"
	"github.com/serz/food-daily-bot/internal/estimation"
	"github.com/serz/food-daily-bot/internal/ledger"
	"github.com/serz/food-daily-bot/internal/repository"
)

func main() {
	// Загрузка конфигурации
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		log.Fatal("Задайте токен бота в config.yaml")
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal("Задайте ключ OpenAI в config.yaml")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Инициализация хранилища: Redis, либо память процесса как fallback
	var kv repository.KV
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, redisClient); err != nil {
			log.Printf("Redis unavailable, falling back to in-memory store: %v", err)
			_ = repository.Close(redisClient)
			redisClient = nil
		}
	}
	if redisClient != nil {
		kv = repository.NewRedisKV(redisClient)
		defer repository.Close(redisClient)
	} else {
		kv = repository.NewMemoryKV()
	}

	store := repository.NewStore(kv)
	aggregator := ledger.NewAggregator(store)
	estimator := estimation.NewClient(cfg.OpenAI)

	var metrics *bot.Metrics
	if cfg.Monitoring.PrometheusEnabled {
		metrics = bot.NewMetrics()
		port := cfg.Monitoring.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go startMetricsServer(ctx, port)
	}

	// Создание и запуск бота
	telegramBot, err := bot.New(cfg, store, aggregator, estimator, metrics)
	if err != nil {
		log.Fatal("Ошибка создания бота:", err)
	}

	if cfg.Telegram.WebhookURL != "" {
		srv := &http.Server{Addr: cfg.Telegram.ListenAddr, Handler: telegramBot.Routes()}
		go func() {
			log.Printf("Webhook server started on %s", cfg.Telegram.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Webhook server error: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("Shutdown signal received...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return
	}

	log.Println("Бот запущен в режиме long polling...")
	go telegramBot.Start(ctx)

	<-ctx.Done()
	log.Println("Shutdown signal received...")
	telegramBot.Stop()
}

func startMetricsServer(ctx context.Context, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("metrics server error: %v", err)
	}
}
