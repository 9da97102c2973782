package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	// envconfig's required tag accepts a set-but-empty variable.
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("parsing config: %s must not be empty", EnvJWTSecret)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKPULSE_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOCKPULSE_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"STOCKPULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKPULSE_LOG_WARN_STACK" default:"false"`
	FrontendURL  string `envconfig:"STOCKPULSE_FRONTEND_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma-separated frontend URL list for CORS.
func (a AppConfig) AllowedOrigins() []string {
	parts := strings.Split(a.FrontendURL, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN string `envconfig:"STOCKPULSE_DB_DSN"`

	Host     string `envconfig:"STOCKPULSE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STOCKPULSE_DB_PORT" default:"5432"`
	User     string `envconfig:"STOCKPULSE_DB_USER"`
	Password string `envconfig:"STOCKPULSE_DB_PASSWORD"`
	Name     string `envconfig:"STOCKPULSE_DB_NAME" default:"stockpulse"`
	SSLMode  string `envconfig:"STOCKPULSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKPULSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKPULSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKPULSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKPULSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKPULSE_REDIS_URL"`
	Address      string        `envconfig:"STOCKPULSE_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKPULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKPULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKPULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKPULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKPULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKPULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKPULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"STOCKPULSE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOCKPULSE_JWT_ISSUER" default:"stockpulse"`
	ExpirationMinutes int    `envconfig:"STOCKPULSE_JWT_EXPIRATION_MINUTES" default:"30"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOCKPULSE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOCKPULSE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOCKPULSE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOCKPULSE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOCKPULSE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"STOCKPULSE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"STOCKPULSE_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"STOCKPULSE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"STOCKPULSE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"STOCKPULSE_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"STOCKPULSE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKPULSE_AUTO_MIGRATE" default:"false"`
}
