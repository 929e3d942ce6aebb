package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/booking"
	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	clients := repository.NewClientRepo(db)
	tableTypes := repository.NewTableTypeRepo(db)
	tables := repository.NewTableRepo(db)
	rules := repository.NewPricingRuleRepo(db)
	reservations := repository.NewReservationRepo(db)

	// Booking engine
	pricing := booking.NewPricingEngine(tables, tableTypes, rules)
	availability := booking.NewAvailabilityChecker(reservations)
	engine := booking.NewEngine(users, clients, tables, tableTypes, reservations, pricing, availability)

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	reservationH := handler.NewReservationHandler(engine, reservations, clients, tables)
	tableTypeH := handler.NewTableTypeHandler(tableTypes)
	tableH := handler.NewTableHandler(tables, tableTypes)
	clientH := handler.NewClientHandler(clients)
	ruleH := handler.NewPricingRuleHandler(rules, tableTypes)

	e := echo.New()
	e.Use(middleware.RequestID())

	// Redis-backed rate limiting and response caching degrade to no-ops
	// when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBooking(e, reservationH, cfg.JWTSecret)
	router.RegisterAdmin(e, tableTypeH, tableH, clientH, ruleH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
