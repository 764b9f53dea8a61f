package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/aylinvena/table-reservation/internal/booking"
	"github.com/aylinvena/table-reservation/internal/config"
	"github.com/aylinvena/table-reservation/internal/database"
	"github.com/aylinvena/table-reservation/internal/handler"
	"github.com/aylinvena/table-reservation/internal/middleware"
	"github.com/aylinvena/table-reservation/internal/queue"
	"github.com/aylinvena/table-reservation/internal/repository"
	"github.com/aylinvena/table-reservation/internal/router"
)

func main() {
	// .env is optional; production deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config
	e := echo.New()      // Create Echo instance

	// Storage backend selection.  The memory backend serves local
	// development and demos; everything else goes through MySQL.
	var (
		registry repository.RegistryStore
		users    repository.UserStore
		tokens   repository.TokenStore
		ledger   repository.LedgerReader
		resStore booking.ReservationStore
	)
	switch cfg.StoreBackend {
	case "memory":
		mem := repository.NewMemoryStore()
		registry, users, tokens, ledger, resStore = mem, mem, mem, mem, mem
		log.Printf("storage: in-memory (state is lost on restart)")
	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		registry = repository.NewRegistry(db)
		resRepo := repository.NewReservationRepo(db)
		ledger, resStore = resRepo, resRepo
		users = repository.NewUserRepo(db)
		tokens = repository.NewTokenRepo(db)
		log.Printf("storage: mysql %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
	}

	engine := booking.NewEngine(registry, registry, resStore)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	venueH := handler.NewVenueHandler(registry)
	resH := handler.NewReservationHandler(engine, registry, ledger, resStore)

	// Redis-backed middlewares degrade to pass-throughs when Redis is
	// unreachable; the API stays up without them.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, rate limiting and response caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)                       // health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)   // register/login/refresh/logout/me
	router.RegisterPublic(e, venueH, resH, cacheMW) // guest browse + availability
	router.RegisterCustomer(e, resH, cfg.JWTSecret)
	router.RegisterOwner(e, venueH, resH, cfg.JWTSecret)

	// Background consumer logs confirmed reservations from the broker.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation-consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
