// Command server runs the dining hall HTTP API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/dining-hall/internal/config"
	"github.com/iliyamo/dining-hall/internal/database"
	"github.com/iliyamo/dining-hall/internal/handler"
	"github.com/iliyamo/dining-hall/internal/middleware"
	"github.com/iliyamo/dining-hall/internal/queue"
	"github.com/iliyamo/dining-hall/internal/repository"
	"github.com/iliyamo/dining-hall/internal/router"
	"github.com/iliyamo/dining-hall/internal/service"
	"github.com/iliyamo/dining-hall/internal/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to document store")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}
	log.Info().Str("db", cfg.MongoDB).Msg("document store connected")

	meals := repository.NewMealRepo(db)
	users := repository.NewUserRepo(db)
	reviews := repository.NewReviewRepo(db)
	requests := repository.NewRequestRepo(db)
	complaints := repository.NewComplaintRepo(db)

	ledger, sqlDB := openLedger(ctx, cfg, db)
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	catalog := &service.Catalog{Meals: meals, Requests: requests, Users: users, Retry: service.DefaultRetry}
	if cfg.AMQPURL != "" {
		catalog.Publisher = queue.NewPublisher(cfg.AMQPURL)
		go queue.StartFanoutConsumer(ctx, cfg.AMQPURL, catalog)
		log.Info().Msg("fan-out recovery enabled")
	} else {
		log.Warn().Msg("no broker configured; failed fan-outs will only be logged")
	}

	uploads := &handler.UploadHandler{}
	if cfg.S3.Bucket != "" {
		up, err := storage.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure image uploads")
		}
		uploads.Images = up
	}

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; cache and rate limit disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	metrics := middleware.NewMetrics("dining")

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = router.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.ClientURLs,
		AllowCredentials: true,
	}))
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(echomw.BodyLimit("10M"))
	e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))

	router.Register(e, deps(cfg, rdb, metrics, handlerSet{
		meals:      handler.NewMealHandler(meals, catalog),
		reviews:    handler.NewReviewHandler(reviews, meals),
		requests:   handler.NewRequestHandler(requests),
		users:      handler.NewUserHandler(users),
		payments:   handler.NewPaymentHandler(ledger, service.NewStripeGateway(cfg.StripeKey)),
		complaints: handler.NewComplaintHandler(complaints),
		uploads:    uploads,
	}, users))

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shut down")
	}
}

type handlerSet struct {
	meals      *handler.MealHandler
	reviews    *handler.ReviewHandler
	requests   *handler.RequestHandler
	users      *handler.UserHandler
	payments   *handler.PaymentHandler
	complaints *handler.ComplaintHandler
	uploads    *handler.UploadHandler
}

func deps(cfg config.Config, rdb *redis.Client, metrics *middleware.Metrics, h handlerSet, roles middleware.RoleLookup) router.Deps {
	cacheCfg := config.LoadCacheConfig()
	return router.Deps{
		Secret:     cfg.JWTSecret,
		Roles:      roles,
		Auth:       handler.NewAuthHandler(cfg.JWTSecret, cfg.TokenTTL),
		Meals:      h.meals,
		Reviews:    h.reviews,
		Requests:   h.requests,
		Users:      h.users,
		Payments:   h.payments,
		Complaints: h.complaints,
		Uploads:    h.uploads,
		Cache:      middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate: middleware.InvalidateCache(cacheCfg, rdb),
		Limit:      middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Metrics:    metrics,
	}
}

// openLedger picks the payment ledger backend.  The returned *sql.DB is nil
// unless the MySQL ledger is in use.
func openLedger(ctx context.Context, cfg config.Config, db *mongo.Database) (handler.PaymentStore, *sql.DB) {
	if cfg.PaymentStore != "mysql" {
		return repository.NewMongoPaymentRepo(db), nil
	}
	sqlDB, err := database.OpenLedger(ctx, cfg.Ledger, repository.LedgerSchema)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open payment ledger")
	}
	log.Info().Str("host", cfg.Ledger.Host).Msg("payment ledger on mysql")
	return repository.NewSQLPaymentRepo(sqlDB), sqlDB
}

// setupLogger configures the global zerolog logger.  Development gets the
// console writer; every other environment logs JSON.
func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if strings.EqualFold(cfg.Env, "dev") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
