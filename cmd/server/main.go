package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/penzolll/umi-shop-digital/internal/cache"
	h "github.com/penzolll/umi-shop-digital/internal/http"
	"github.com/penzolll/umi-shop-digital/internal/metrics"
	"github.com/penzolll/umi-shop-digital/internal/publisher"
	"github.com/penzolll/umi-shop-digital/internal/repository"
	"github.com/penzolll/umi-shop-digital/internal/service"
)

type Config struct {
	HTTPPort        string
	DB              repository.Credentials
	RedisAddr       string
	KafkaBrokers    []string
	JWTSecret       string
	Checkout        service.CheckoutConfig
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		DB: repository.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "umishop"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "./migrations"),
		},
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		Checkout:        service.DefaultCheckoutConfig(),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}

	if v := os.Getenv("TAX_RATE"); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			log.Fatalf("invalid TAX_RATE %q: %v", v, err)
		}
		cfg.Checkout.TaxRate = rate
	}
	if v := os.Getenv("SHIPPING_COST"); v != "" {
		cost, err := decimal.NewFromString(v)
		if err != nil {
			log.Fatalf("invalid SHIPPING_COST %q: %v", v, err)
		}
		cfg.Checkout.ShippingCost = cost
	}
	if v := os.Getenv("PAYMENT_METHODS"); v != "" {
		cfg.Checkout.PaymentMethods = strings.Split(v, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid %s %q: %v", key, value, err)
	}
	return n
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := loadConfig()

	repo, err := repository.NewRepository(&cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(&cfg.DB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Println("connected to postgres, migrations applied")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	cartCache := cache.NewRedisCache(redisClient)

	stats := metrics.NewStoreMetrics()

	authService := service.NewAuthService(repo, service.AuthConfig{JWTSecret: []byte(cfg.JWTSecret)})
	catalogService := service.NewCatalogService(repo, repo)
	cartService := service.NewCartService(repo, cartCache)
	checkoutService := service.NewCheckoutService(repo, cartCache, stats, cfg.Checkout)
	orderService := service.NewOrderService(repo)

	router := h.NewRouter(
		h.RouterConfig{RequestTimeout: cfg.RequestTimeout},
		authService,
		h.NewAuthHandler(authService),
		h.NewProductHandler(catalogService),
		h.NewCategoryHandler(catalogService),
		h.NewCartHandler(cartService),
		h.NewOrderHandler(checkoutService, orderService),
	)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	poller := publisher.NewOutboxPoller(repo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
