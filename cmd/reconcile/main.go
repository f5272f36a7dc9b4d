package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log"
	"os"
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

	var (
		driver  = flag.String("driver", envOr("PIM_DB_DRIVER", "mysql"), "database driver (mysql or sqlite3)")
		dsn     = flag.String("dsn", os.Getenv("PIM_DB_DSN"), "database DSN")
		window  = flag.Duration("window", 0, "recency window override (0 keeps the configured default)")
		full    = flag.Bool("full", false, "ignore the recency window and scan every row")
		timeout = flag.Duration("timeout", 30*time.Minute, "run timeout")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("a DSN is required (-dsn or PIM_DB_DSN)")
	}

	cfg := pim.DefaultConfig()
	cfg.Scheduler.Enabled = false
	if *window > 0 {
		cfg.Reconciler.Window = *window
	}
	if *full {
		cfg.Reconciler.Window = 0
	}

	db, err := openDatabase(*driver, *dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	module, err := pim.New(cfg, di.WithBunDB(db))
	if err != nil {
		log.Fatalf("wire module: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := module.Reconciler().Run(ctx)
	if err != nil {
		log.Fatalf("reconcile: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		log.Fatalf("encode report: %v", err)
	}
	if len(report.Failures) > 0 {
		os.Exit(1)
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

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
