package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/01072k1anhCong2/kinhkong/internal/api"
	"github.com/01072k1anhCong2/kinhkong/internal/auth"
	"github.com/01072k1anhCong2/kinhkong/internal/cart"
	"github.com/01072k1anhCong2/kinhkong/internal/catalog"
	"github.com/01072k1anhCong2/kinhkong/internal/checkout"
	"github.com/01072k1anhCong2/kinhkong/internal/events"
	"github.com/01072k1anhCong2/kinhkong/internal/metrics"
	"github.com/01072k1anhCong2/kinhkong/internal/mongodb"
	"github.com/01072k1anhCong2/kinhkong/internal/orders"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	SQLitePath      string
	MigrationsPath  string
	KafkaBrokers    string
	AdminEmail      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "kinhkong"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "kinhkong.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@kingkong.com"),
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

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// User store
	userStore, err := auth.NewRepository(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open user database: %v", err)
	}
	defer userStore.Close()
	if err := userStore.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Order events
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing order events to %s", cfg.KafkaBrokers)
	}

	// Services
	authService := auth.NewService(userStore)
	gate := auth.NewGate(cfg.AdminEmail)
	cartService := cart.NewService(cart.NewRedisStore(redisClient))
	catalogService := catalog.NewService(catalog.NewMongoRepository(mongoDB), catalog.NewRedisCache(redisClient))
	ordersRepo := orders.NewMongoRepository(mongoDB)
	checkoutManager := checkout.NewManager(cartService, ordersRepo, publisher)
	reg := metrics.NewRegistry()

	// Handlers
	authHandler := api.NewAuthHandler(authService, gate, reg)
	productHandler := api.NewProductHandler(catalogService, cfg.RequestTimeout)
	cartHandler := api.NewCartHandler(cartService, catalogService, reg, cfg.RequestTimeout)
	checkoutHandler := api.NewCheckoutHandler(checkoutManager, reg, cfg.RequestTimeout)
	ordersHandler := api.NewOrdersHandler(ordersRepo, cfg.RequestTimeout)
	adminHandler := api.NewAdminHandler(catalogService, ordersRepo, publisher, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(api.SessionMiddleware(authService))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method("GET", "/metrics", reg.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{product_id}", productHandler.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/", cartHandler.Clear)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Begin)
			r.Get("/", checkoutHandler.State)
			r.Put("/shipping", checkoutHandler.Shipping)
			r.Put("/payment", checkoutHandler.Payment)
			r.Post("/next", checkoutHandler.Next)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/order", checkoutHandler.PlaceOrder)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListMine)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(api.RequireAdmin(gate))
			r.Post("/products", adminHandler.CreateProduct)
			r.Put("/products/{id}", adminHandler.UpdateProduct)
			r.Delete("/products/{id}", adminHandler.DeleteProduct)
			r.Get("/orders", adminHandler.ListOrders)
			r.Put("/orders/{id}/fulfillment", adminHandler.UpdateFulfillment)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
