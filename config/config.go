package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends accepted in CACHE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Cache key strategies accepted in CACHE_KEY.
const (
	KeyStat = "stat"
	KeyHash = "hash"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataPath    string
	GeoJSONPath string
	HTTPAddr    string

	CacheBackend string
	CacheKey     string
	CacheTTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath string

	LogLevel  string
	LogFormat string

	AnalysisConfigPath string
	ExportDir          string
	MaxRetries         int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataPath:    getEnv("DATA_PATH", "./data.csv"),
		GeoJSONPath: getEnv("GEOJSON_PATH", "./distrito_all_s.geojson"),
		HTTPAddr:    getEnv("HTTP_ADDR", "127.0.0.1:8501"),

		CacheBackend: getEnv("CACHE_BACKEND", BackendMemory),
		CacheKey:     getEnv("CACHE_KEY", KeyStat),
		CacheTTL:     time.Duration(getEnvInt("CACHE_TTL_SEC", 3600)) * time.Second,

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard"),
		PostgresDB:       getEnv("POSTGRES_DB", "housing"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getEnv("SQLITE_PATH", "./cache/snapshots.db"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		AnalysisConfigPath: getEnv("ANALYSIS_CONFIG", "./analysis.yaml"),
		ExportDir:          getEnv("EXPORT_DIR", "./output"),
		MaxRetries:         getEnvInt("MAX_RETRIES", 3),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
