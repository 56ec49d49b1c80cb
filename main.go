package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"housing-dashboard/api"
	"housing-dashboard/config"
	"housing-dashboard/services"
	"housing-dashboard/storage"
	"housing-dashboard/utils"
)

const usage = `usage: housing-dashboard [serve|report|export] [-format csv|xlsx]

  serve    serve the dashboard API (default)
  report   print the survey insights to the terminal
  export   write the normalized table to EXPORT_DIR`

func main() {
	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	format := fs.String("format", "csv", "export format: csv or xlsx")
	fs.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	_ = fs.Parse(args)

	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Housing dashboard starting (%s) ===", cmd)
	logger.Info("Config | data: %s | cache: %s/%s | addr: %s", cfg.DataPath, cfg.CacheBackend, cfg.CacheKey, cfg.HTTPAddr)

	assumptions, err := config.LoadAssumptions(cfg.AnalysisConfigPath)
	if err != nil {
		logger.Error("Invalid analysis assumptions: %v", err)
		os.Exit(1)
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open %s snapshot store: %v", cfg.CacheBackend, err)
		os.Exit(1)
	}
	defer store.Close()

	keyFn := services.StatKey
	if cfg.CacheKey == config.KeyHash {
		keyFn = services.HashKey
	}

	normalizer := services.NewNormalizer(logger, assumptions)
	cache := services.NewTableCache(logger, normalizer, services.WithKeyFunc(keyFn), services.WithStore(store))
	districts := services.LoadDistrictMap(logger, cfg.GeoJSONPath)
	insights := services.NewInsightService(logger, assumptions, districts)

	switch cmd {
	case "serve":
		srv := api.NewServer(logger, cache, insights, cfg.DataPath)
		if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			logger.Error("Server stopped: %v", err)
			os.Exit(1)
		}

	case "report":
		table := cache.Get(ctx, cfg.DataPath)
		if table.Err != nil {
			logger.Error("%s", table.Message())
			os.Exit(1)
		}
		insights.Print(os.Stdout, insights.Generate(table.Rows))

	case "export":
		table := cache.Get(ctx, cfg.DataPath)
		if table.Err != nil {
			logger.Error("%s", table.Message())
			os.Exit(1)
		}
		path, err := export(cfg.ExportDir, *format, table)
		if err != nil {
			logger.Error("Export failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("  Done. %d respondents → %s\n\n", len(table.Rows), path)

	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

// openStore connects the snapshot store selected by CACHE_BACKEND. Remote
// backends are pinged with retry before use.
func openStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.SnapshotStore, error) {
	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 500 * time.Millisecond, Logger: logger}

	switch cfg.CacheBackend {
	case config.BackendMemory, "":
		return storage.NewMemoryStore(), nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		rs := storage.NewRedisStore(client, cfg.CacheTTL)
		if err := retry.Do(ctx, "redis ping", rs.Ping); err != nil {
			rs.Close()
			return nil, err
		}
		logger.Info("Connected to Redis at %s", cfg.RedisAddr)
		return rs, nil

	case config.BackendPostgres:
		db, err := storage.OpenPostgres(cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := retry.Do(ctx, "postgres ping", db.PingContext); err != nil {
			db.Close()
			logger.Error("Make sure PostgreSQL is running: docker compose up -d")
			return nil, err
		}
		ps, err := storage.NewPostgresStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Connected to PostgreSQL (table: table_snapshots)")
		return ps, nil

	case config.BackendSQLite:
		ss, err := storage.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("Using SQLite snapshot store at %s", cfg.SQLitePath)
		return ss, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

func export(dir, format string, table *services.Table) (string, error) {
	var (
		w    storage.TableWriter
		path string
		err  error
	)
	switch format {
	case "csv":
		path = filepath.Join(dir, "respondents.csv")
		w, err = storage.NewCSVWriter(path)
	case "xlsx":
		path = filepath.Join(dir, "respondents.xlsx")
		w, err = storage.NewXLSXWriter(path)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", err
	}

	if err := w.Write(table.Rows); err != nil {
		w.Close()
		return "", err
	}
	return path, w.Close()
}
