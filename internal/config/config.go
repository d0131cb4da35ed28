package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	applog "stockroom/internal/log"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBDSN    string `envconfig:"DB_DSN" default:"file:stockroom.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"`
	LogFile  string `envconfig:"LOG_FILE"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	CORSOrigins     string        `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	TemplateReload  bool          `envconfig:"TEMPLATE_RELOAD" default:"false"`
	RateLimit       int           `envconfig:"RATE_LIMIT" default:"120"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	// EnforceLowStockRule rejects products whose low-stock threshold exceeds the
	// initial stock count.
	EnforceLowStockRule bool `envconfig:"ENFORCE_LOW_STOCK_RULE" default:"true"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LogLoaded records the effective configuration. Call it once the log sinks and
// level are set so the line lands where the rest of the run does.
func (c Config) LogLoaded() {
	applog.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOG_LEVEL=%s REDIS_ADDR=%s ENFORCE_LOW_STOCK_RULE=%t",
		c.Port, c.DBDSN, c.LogFile, c.LogLevel, c.RedisAddr, c.EnforceLowStockRule)
}

// Defaults returns the configuration Load would produce with an empty environment.
func Defaults() Config {
	return Config{
		Port:                "8080",
		DBDSN:               "file:stockroom.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		LogLevel:            "info",
		CacheTTL:            5 * time.Minute,
		CORSOrigins:         "http://localhost:5173",
		RateLimit:           120,
		ShutdownTimeout:     15 * time.Second,
		EnforceLowStockRule: true,
	}
}
