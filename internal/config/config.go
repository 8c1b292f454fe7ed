package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	HTTPTimeout  time.Duration
	LogLevel     slog.Level
	MaxUploadMB  int64
	FetchRetries int

	TopCustomers int
	TopProducts  int
	RecentOrders int

	MySQLDSN        string
	MySQLSalesTable string
	MySQLLinesTable string
}

// Load reads an optional dotenv file before resolving the environment.
// Variables already set in the process environment win over the file.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return Config{}, err
		}
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		Port:            envOr("PORT", "8080"),
		HTTPTimeout:     to,
		LogLevel:        lvl,
		MaxUploadMB:     int64(intOr("MAX_UPLOAD_MB", 32)),
		FetchRetries:    intOr("FETCH_RETRIES", 3),
		TopCustomers:    intOr("TOP_CUSTOMERS", 10),
		TopProducts:     intOr("TOP_PRODUCTS", 15),
		RecentOrders:    intOr("RECENT_ORDERS", 20),
		MySQLDSN:        os.Getenv("MYSQL_DSN"),
		MySQLSalesTable: envOr("MYSQL_SALES_TABLE", "sales_orders"),
		MySQLLinesTable: os.Getenv("MYSQL_LINES_TABLE"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func intOr(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v < 0 {
		return def
	}
	return v
}
