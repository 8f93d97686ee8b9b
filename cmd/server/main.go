package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/regadio/regadio-api/internal/config"
	"github.com/regadio/regadio-api/internal/database"
	"github.com/regadio/regadio-api/internal/handler"
	"github.com/regadio/regadio-api/internal/middleware"
	"github.com/regadio/regadio-api/internal/queue"
	"github.com/regadio/regadio-api/internal/repository"
	"github.com/regadio/regadio-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	events := queue.NewPublisher(cfg.RabbitMQURL)
	buster := middleware.NewCacheBuster(cacheCfg, rdb)

	users := repository.NewUserRepo(db)
	news := repository.NewNewsRepo(db)
	projects := repository.NewProjectRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	newsH := handler.NewNewsHandler(cfg, news, events, buster)
	projectH := handler.NewProjectHandler(cfg, projects, events, buster)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))

	cache := middleware.PublicCache(cacheCfg, rdb)
	limiter := middleware.RateLimit(rlCfg, rdb)

	router.RegisterSystem(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterNews(e, newsH, cfg.JWTSecret, cache)
	router.RegisterProjects(e, projectH, cfg.JWTSecret, cache)

	// Audit consumer; no-op when no broker is configured.
	go queue.StartContentConsumer(cfg.RabbitMQURL)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
