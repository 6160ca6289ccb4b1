// Command server runs the eco footprint API.
//
// @title        Eco Footprint API
// @version      1.0
// @description  Daily CO2 footprint estimation, history, assistant and reminders.
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-eco-backend/docs"
	"github.com/tbourn/go-eco-backend/internal/assistant"
	"github.com/tbourn/go-eco-backend/internal/config"
	"github.com/tbourn/go-eco-backend/internal/events"
	"github.com/tbourn/go-eco-backend/internal/history"
	httpapi "github.com/tbourn/go-eco-backend/internal/http"
	"github.com/tbourn/go-eco-backend/internal/kvstore"
	"github.com/tbourn/go-eco-backend/internal/observability"
	"github.com/tbourn/go-eco-backend/internal/reminder"
	"github.com/tbourn/go-eco-backend/internal/repo"
	"github.com/tbourn/go-eco-backend/internal/services"
	"github.com/tbourn/go-eco-backend/internal/sysutil"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetupLogger(os.Stderr, cfg.LogPretty, cfg.OTEL.ServiceName)
	sysutil.SetLogLevel(cfg.LogLevel)
	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	if err := run(cfg, ver); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, ver string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver,
		attribute.String("eco.store.backend", cfg.Store.Backend))
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() { _ = shutdownOTel(context.Background()) }()

	// SQLite always backs idempotency records; it also holds history when
	// the sqlite backend is selected.
	db, err := repo.OpenSQLite(cfg.Store.DBPath)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg.Store, db)
	if err != nil {
		return err
	}
	defer closeStore()

	dispatcher := events.NewDispatcher(events.MetricsObserver{}, events.LogPublisher{Logger: log.Logger})
	if len(cfg.Kafka.Brokers) > 0 {
		pub := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer pub.Close()
		dispatcher.Add(pub)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka publishing enabled")
	}

	fp := services.NewFootprintService(history.New(store, cfg.Store.HistoryKey), dispatcher)
	if v, ok := store.(kvstore.Versioned); ok {
		fp.Versions = v
		fp.Key = cfg.Store.HistoryKey
	}

	client, err := assistantClient(cfg.Assistant)
	if err != nil {
		return err
	}
	asst := &services.AssistantService{
		Client:         client,
		Latest:         fp.Latest,
		MaxPromptRunes: cfg.Assistant.MaxPromptRunes,
		Timeout:        cfg.Assistant.Timeout,
	}

	queue := reminder.NewQueue(reminder.SystemClock, reminder.LogNotifier{})
	go queue.Run(ctx, cfg.Reminder.Tick)

	if cfg.Reminder.NotifyEnabled {
		nudge := reminder.NewPeriodic(cfg.Reminder.NotifySpec, cfg.Reminder.NotifyMessage, reminder.LogNotifier{})
		if err := nudge.Start(); err != nil {
			return fmt.Errorf("nudge: %w", err)
		}
		defer nudge.Stop()
		log.Info().Str("spec", cfg.Reminder.NotifySpec).Time("next", nudge.Next()).Msg("periodic nudge scheduled")
	}

	go purgeIdempotency(ctx, db, time.Hour)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	httpapi.RegisterRoutes(r, httpapi.Deps{
		Footprints:  fp,
		Assistant:   asst,
		Reminders:   queue,
		Idempotency: httpapi.IdempotencyRepo{DB: db, TTL: cfg.IdempotencyTTL},
	}, cfg)
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.Version = ver
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Backend).Bool("remote_assistant", cfg.Assistant.Remote()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore builds the history backend selected by cfg.Backend.
func openStore(ctx context.Context, cfg config.StoreConfig, db *gorm.DB) (kvstore.Store, func(), error) {
	switch cfg.Backend {
	case config.StoreRedis:
		client, err := kvstore.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return kvstore.NewRedisStore(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil
	case config.StoreMemory:
		log.Warn().Msg("memory store selected; history is lost on restart")
		return kvstore.NewMemoryStore(), func() {}, nil
	default:
		return kvstore.NewSQLStore(db), func() {}, nil
	}
}

// assistantClient picks OpenAI when a key is configured, else the tips index.
func assistantClient(cfg config.AssistantConfig) (assistant.Client, error) {
	if cfg.Remote() {
		return assistant.NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	}
	tips := assistant.DefaultTips()
	if cfg.TipsPath != "" {
		b, err := os.ReadFile(cfg.TipsPath)
		if err != nil {
			return nil, fmt.Errorf("read tips: %w", err)
		}
		tips = b
	}
	c, err := assistant.NewTipsClient(tips, cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("tips index: %w", err)
	}
	return c, nil
}

func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, time.Now().UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("rows", n).Msg("expired idempotency records purged")
			}
		}
	}
}
