package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitorder/internal/auth"
	"github.com/mmynk/splitorder/internal/config"
	"github.com/mmynk/splitorder/internal/events"
	"github.com/mmynk/splitorder/internal/metrics"
	"github.com/mmynk/splitorder/internal/middleware"
	"github.com/mmynk/splitorder/internal/service"
	"github.com/mmynk/splitorder/internal/session"
	"github.com/mmynk/splitorder/internal/storage/redis"
	"github.com/mmynk/splitorder/internal/storage/sqlite"
	"github.com/mmynk/splitorder/pkg/logging"
	"github.com/mmynk/splitorder/pkg/splitapi"
)

const tokenDuration = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	opts := []service.Option{
		service.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
	}

	// Checkout sessions live in Redis when configured, in memory otherwise
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			slog.Error("Failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		opts = append(opts, service.WithSessions(redis.NewSessions(rdb, cfg.SessionTTL)))
		slog.Info("Redis sessions enabled", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	} else {
		opts = append(opts, service.WithSessions(session.NewMemoryStores()))
		slog.Warn("SPLITORDER_REDIS_ADDR not set, checkout sessions are kept in memory")
	}

	if cfg.RabbitURL != "" {
		publisher, err := events.NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			slog.Error("Failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
		slog.Info("Split order events enabled", "exchange", cfg.RabbitExchange)
	}

	interceptors := []connect.Interceptor{}
	if cfg.JWTSecret != "" {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
		interceptors = append(interceptors, middleware.OptionalAuth(jwtManager))
		opts = append(opts, service.WithOwnerCheck())
		slog.Info("Customer tokens enabled, cart ownership is enforced")
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor())

	mux := http.NewServeMux()

	// Register Connect service
	splitPath, splitHandler := splitapi.NewSplitServiceHandler(
		service.NewSplitService(store, opts...),
		connect.WithInterceptors(interceptors...),
	)
	mux.Handle(splitPath, splitHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	slog.Info("Connect server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
