package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartcache "github.com/reda57493110/pixelpad-backend/internal/cart/cache"
	cartrepo "github.com/reda57493110/pixelpad-backend/internal/cart/repository"
	cartservice "github.com/reda57493110/pixelpad-backend/internal/cart/service"
	catalogdomain "github.com/reda57493110/pixelpad-backend/internal/catalog/domain"
	catalogstore "github.com/reda57493110/pixelpad-backend/internal/catalog/store"
	"github.com/reda57493110/pixelpad-backend/internal/checkout/draft"
	checkoutservice "github.com/reda57493110/pixelpad-backend/internal/checkout/service"
	"github.com/reda57493110/pixelpad-backend/internal/httpapi"
	identitystore "github.com/reda57493110/pixelpad-backend/internal/identity/store"
	"github.com/reda57493110/pixelpad-backend/internal/orders/publisher"
	ordersrepo "github.com/reda57493110/pixelpad-backend/internal/orders/repository"
	"github.com/reda57493110/pixelpad-backend/internal/payment"
	paymentrepo "github.com/reda57493110/pixelpad-backend/internal/payment/repository"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	MongoURI        string
	MongoDatabase   string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PaymentDBName   string
	OrdersDBName    string
	KafkaBrokers    []string
	ProductsFile    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "pixelpad"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PaymentDBName:   getEnv("PAYMENT_DB_NAME", "payment_db"),
		OrdersDBName:    getEnv("ORDERS_DB_NAME", "orders_db"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ProductsFile:    getEnv("PRODUCTS_FILE", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the cart cache, checkout drafts and the address cache
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Mongo backs cart storage
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}()
	cartCollection := mongoClient.Database(cfg.MongoDatabase).Collection("carts")

	// Postgres backs payment sessions and orders
	paymentCred := &paymentrepo.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PaymentDBName,
		MigrationsDirPath: "internal/payment/repository/migrations",
	}
	paymentRepo, err := paymentrepo.NewRepository(paymentCred)
	if err != nil {
		log.Fatalf("failed to connect to payment db: %v", err)
	}
	defer paymentRepo.Close()
	if err := paymentRepo.RunMigrations(paymentCred); err != nil {
		log.Fatalf("failed to run payment migrations: %v", err)
	}

	ordersCred := &ordersrepo.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.OrdersDBName,
		MigrationsDirPath: "internal/orders/repository/migrations",
	}
	ordersRepo, err := ordersrepo.NewRepository(ordersCred)
	if err != nil {
		log.Fatalf("failed to connect to orders db: %v", err)
	}
	defer ordersRepo.Close()
	if err := ordersRepo.RunMigrations(ordersCred); err != nil {
		log.Fatalf("failed to run orders migrations: %v", err)
	}

	// Services
	productStore := catalogstore.NewMemoryStore()
	if cfg.ProductsFile != "" {
		if err := seedProducts(productStore, cfg.ProductsFile); err != nil {
			log.Fatalf("failed to seed products: %v", err)
		}
	}

	cartService := cartservice.NewCartService(
		cartrepo.NewMongoRepository(cartCollection),
		cartcache.NewRedisCache(redisClient),
	)
	sessionManager := payment.NewManager(paymentRepo)
	userStore := identitystore.NewMemoryStore()

	checkoutService := checkoutservice.NewCheckoutService(
		productStore,
		cartService,
		draft.NewRedisStore(redisClient),
		draft.NewRedisAddressCache(redisClient),
		sessionManager,
		ordersRepo,
		userStore,
	)

	// Outbox poller publishes order events and sweeps stale payment sessions
	poller := publisher.NewOutboxPoller(ordersRepo, paymentRepo, cfg.KafkaBrokers...)
	go poller.Run(ctx)

	router := httpapi.NewRouter(
		httpapi.NewCheckoutHandler(checkoutService, cfg.RequestTimeout),
		httpapi.NewCartHandler(cartService, cfg.RequestTimeout),
		httpapi.NewOrdersHandler(ordersRepo, cfg.RequestTimeout),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server stopped")
}

// seedProducts loads the catalog from a JSON file at startup.
func seedProducts(store *catalogstore.MemoryStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var products []catalogdomain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return err
	}
	for i := range products {
		if err := store.Upsert(&products[i]); err != nil {
			return err
		}
	}
	log.Printf("seeded %d products from %s", len(products), path)
	return nil
}
