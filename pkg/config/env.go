package config

const (
	EnvPrefix = "ADVSHIP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv        = "ADVSHIP_APP_ENV"
	EnvPort          = "ADVSHIP_APP_PORT"
	EnvStoreTimezone = "ADVSHIP_STORE_TIMEZONE"
	EnvDBDSN         = "ADVSHIP_DB_DSN"
	EnvDBHost        = "ADVSHIP_DB_HOST"
	EnvDBUser        = "ADVSHIP_DB_USER"
	EnvDBName        = "ADVSHIP_DB_NAME"
	EnvUseSQLite     = "ADVSHIP_USE_SQLITE"
	EnvRedisURL      = "ADVSHIP_REDIS_URL"
	EnvJWTSecret     = "ADVSHIP_JWT_SECRET"
	EnvJWTIssuer     = "ADVSHIP_JWT_ISSUER"
	EnvCORSOrigins   = "ADVSHIP_CORS_ALLOWED_ORIGINS"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
