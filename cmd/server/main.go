package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/stagedoor/internal/config"
	"github.com/iliyamo/stagedoor/internal/database"
	"github.com/iliyamo/stagedoor/internal/handler"
	"github.com/iliyamo/stagedoor/internal/logger"
	"github.com/iliyamo/stagedoor/internal/metrics"
	"github.com/iliyamo/stagedoor/internal/middleware"
	"github.com/iliyamo/stagedoor/internal/queue"
	"github.com/iliyamo/stagedoor/internal/quiz"
	"github.com/iliyamo/stagedoor/internal/repository"
	"github.com/iliyamo/stagedoor/internal/router"
	"github.com/iliyamo/stagedoor/internal/service"
	"github.com/iliyamo/stagedoor/internal/showtime"
)

// showLogDir receives shows.log from the show.scheduled consumer.
const showLogDir = "logs"

func main() {
	cfg := config.MustLoad() // Load environment config

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.MigrateSQLite(db, cfg.MigrationsPath); err != nil {
			return err
		}
		log.Info("sqlite schema migrated", zap.String("path", cfg.MigrationsPath))
	}

	// Redis backs the response cache and the rate limiter.  Both fail
	// open, so the API keeps serving without it.
	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Warn("redis unavailable, cache and rate limit disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	m := metrics.New()

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(m.Middleware())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, cfg.JWTSecret, log))

	cacheCfg := config.LoadCacheConfig()
	cache := router.Caching{
		Read:  middleware.NewRedisCache(cacheCfg, rdb),
		Purge: middleware.PurgeOnWrite(cacheCfg, rdb, log),
	}

	venues := repository.NewVenueRepo(db)
	artists := repository.NewArtistRepo(db)
	shows := repository.NewShowRepo(db)
	questions := repository.NewQuestionRepo(db)
	partitioner := showtime.NewPartitioner(shows)

	router.RegisterRoutes(e, db, m) // Register application routes
	router.RegisterBooking(e,
		&handler.VenueHandler{Venues: venues, Partitioner: partitioner, Metrics: m},
		&handler.ArtistHandler{Artists: artists, Partitioner: partitioner, Metrics: m},
		&handler.ShowHandler{
			Shows: shows, Artists: artists, Venues: venues,
			Publisher: service.NewPublisher(cfg.RabbitURL, log),
			Metrics:   m,
			Log:       log,
		},
		cache,
	)
	router.RegisterTrivia(e, &handler.TriviaHandler{
		Categories: repository.NewCategoryRepo(db),
		Questions:  questions,
		Selector:   quiz.NewSelector(questions),
		PerPage:    cfg.QuestionsPerPage,
		Metrics:    m,
	}, cache)
	router.RegisterCoffee(e, &handler.DrinkHandler{Drinks: repository.NewDrinkRepo(db)}, cfg.JWTSecret)

	go func() {
		if err := queue.StartShowConsumer(ctx, cfg.RabbitURL, showLogDir, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("show consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port // Address string with port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
