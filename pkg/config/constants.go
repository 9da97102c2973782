package config

// EnvPrefix is empty because every field carries a fully-qualified
// STOCKPULSE_* envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared with tests and deploy tooling.
const (
	EnvAppEnv    = "STOCKPULSE_APP_ENV"
	EnvPort      = "STOCKPULSE_APP_PORT"
	EnvDBDSN     = "STOCKPULSE_DB_DSN"
	EnvRedisURL  = "STOCKPULSE_REDIS_URL"
	EnvJWTSecret = "STOCKPULSE_JWT_SECRET"
	EnvJWTIssuer = "STOCKPULSE_JWT_ISSUER"
	EnvJWTExpMin = "STOCKPULSE_JWT_EXPIRATION_MINUTES"
)
