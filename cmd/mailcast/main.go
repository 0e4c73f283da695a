package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"mailcast/internal/api"
	"mailcast/internal/cache"
	"mailcast/internal/client"
	"mailcast/internal/config"
	"mailcast/internal/repo"
	"mailcast/internal/scheduler"
	"mailcast/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := sql.Open("pgx", cfg.Database.PostgresURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	if err := repo.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	var deliveryCache cache.DeliveryCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		deliveryCache = cache.NewRedisCache(rdb, cfg.Redis.TTL)
	}

	messageRepo := repo.NewPostgresMessageRepo(db)
	broadcastRepo := repo.NewPostgresBroadcastRepo(db)
	contactRepo := repo.NewPostgresContactRepo(db)

	mailer := client.NewMailerClient(cfg.Mailer.URL)
	delivery := service.NewDelivery(messageRepo, mailer, deliveryCache, cfg.Worker.BatchSize, logger)

	sched, err := scheduler.New(cfg.Worker.Interval, delivery.Tick)
	if err != nil {
		log.Fatalf("failed to create worker loop: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	broadcasts := service.NewBroadcastService(broadcastRepo, contactRepo, cfg.Mailer.From, sched, logger)

	handler := api.NewHandler(sched, broadcasts, messageRepo)
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: loggingMiddleware(api.Router(handler)),
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
