package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/apifilms/film-ratings/internal/config"
	"github.com/apifilms/film-ratings/internal/database"
	"github.com/apifilms/film-ratings/internal/handler"
	"github.com/apifilms/film-ratings/internal/middleware"
	"github.com/apifilms/film-ratings/internal/queue"
	"github.com/apifilms/film-ratings/internal/repository"
	"github.com/apifilms/film-ratings/internal/router"
	queue_publisher "github.com/apifilms/film-ratings/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	e := echo.New()
	e.HideBanner = true

	// Redis-backed middleware; both degrade to no-ops when Redis is down.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewResponseCache(config.LoadCacheConfig(), rdb))

	users := handler.NewUtilisateurHandler(repository.NewUtilisateurRepo(db))
	films := handler.NewFilmHandler(repository.NewFilmRepo(db))
	notations := handler.NewNotationHandler(repository.NewNotationRepo(db), queue_publisher.PublishRatingRecorded)
	router.RegisterRoutes(e, users, films, notations)

	// Drains rating.recorded into logs/ratings.log; reconnects on its own.
	go func() {
		if err := queue.StartRatingConsumer(); err != nil {
			log.Printf("rating consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
