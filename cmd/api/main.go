package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"example.com/workouttracker/internal/api"
	"example.com/workouttracker/internal/auth"
	"example.com/workouttracker/internal/config"
	"example.com/workouttracker/internal/domain"
	"example.com/workouttracker/internal/events"
	pgstore "example.com/workouttracker/internal/store/postgres"
	sqlitestore "example.com/workouttracker/internal/store/sqlite"
	httptransport "example.com/workouttracker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open record store: %v", err)
	}
	defer cleanup()

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	defer publisher.Close()

	collation, err := language.Parse(cfg.LibraryLocale)
	if err != nil {
		log.Printf("invalid LIBRARY_LOCALE %q, falling back to English", cfg.LibraryLocale)
		collation = language.English
	}

	sessions := domain.NewManager(domain.ManagerConfig{
		Store:     store,
		Collation: collation,
		SaveDelay: cfg.SaveDebounce,
		Events:    publisher,
		Logger:    log.Default(),
	})

	handler := api.NewHandler(sessions)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	var wrapped http.Handler = logger(mux)
	if cfg.AuthDisabled {
		wrapped = auth.StaticMiddleware(sqlitestore.DefaultScope,
			auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)(wrapped)
	} else {
		middleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
			func(r *http.Request) bool {
				return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
			})
		wrapped = middleware.Wrap(wrapped)
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, wrapped)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("workout-tracker listening on %s (store=%s)", cfg.HTTPAddress, cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	// Flush pending debounced saves before the stores close.
	if err := sessions.CloseAll(shutdownCtx); err != nil {
		log.Printf("flushing sessions failed: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (domain.RecordStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		store := pgstore.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		store, err := sqlitestore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}
