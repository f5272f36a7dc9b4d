package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	pim "github.com/goliatone/go-pim"
	"github.com/goliatone/go-pim/internal/di"
)

func main() {
	_ = godotenv.Load()

	cfg := pim.DefaultConfig()
	cfg.Database.Driver = envString("PIM_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = envString("PIM_DB_DSN", cfg.Database.DSN)
	cfg.I18N.NativeLanguageID = envInt64("PIM_NATIVE_LANGUAGE_ID", cfg.I18N.NativeLanguageID)
	cfg.I18N.LanguageHeader = envString("PIM_LANGUAGE_HEADER", cfg.I18N.LanguageHeader)
	cfg.Provider.Endpoint = envString("PIM_PROVIDER_ENDPOINT", cfg.Provider.Endpoint)
	cfg.Provider.SourceISO = envString("PIM_PROVIDER_SOURCE_ISO", cfg.Provider.SourceISO)
	cfg.Reconciler.Window = envDuration("PIM_RECONCILE_WINDOW", cfg.Reconciler.Window)
	cfg.Reconciler.Concurrency = int(envInt64("PIM_RECONCILE_CONCURRENCY", int64(cfg.Reconciler.Concurrency)))
	cfg.Scheduler.TimeOfDay = envString("PIM_SCHEDULE_TIME", cfg.Scheduler.TimeOfDay)
	cfg.Scheduler.Timezone = envString("PIM_SCHEDULE_TZ", cfg.Scheduler.Timezone)
	cfg.Logging.Level = envString("PIM_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = envString("PIM_LOG_FORMAT", cfg.Logging.Format)

	if cfg.Database.DSN == "" {
		log.Fatal("PIM_DB_DSN is required")
	}

	db, err := openDatabase(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	module, err := pim.New(cfg, di.WithBunDB(db))
	if err != nil {
		log.Fatalf("wire module: %v", err)
	}

	mux := http.NewServeMux()
	if err := module.AdminAPI().Register(mux); err != nil {
		log.Fatalf("register admin api: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Scheduler.Enabled {
		if _, err := module.Worker().EnqueueNightly(ctx); err != nil {
			log.Fatalf("enqueue nightly run: %v", err)
		}
		go func() {
			if err := module.Worker().Run(ctx, cfg.Scheduler.PollInterval); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("worker stopped: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:    envString("PIM_HTTP_ADDR", ":8080"),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("pimd listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}

func openDatabase(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case "sqlite3", "sqlite":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		sqldb, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, mysqldialect.New()), nil
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return parsed
}
