package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "juristrack"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "JURISTRACK_APP_ENV"
	EnvPort                   = "JURISTRACK_APP_PORT"
	EnvDBDSN                  = "JURISTRACK_DB_DSN"
	EnvDBHost                 = "JURISTRACK_DB_HOST"
	EnvDBUser                 = "JURISTRACK_DB_USER"
	EnvDBName                 = "JURISTRACK_DB_NAME"
	EnvRedisURL               = "JURISTRACK_REDIS_URL"
	EnvJWTSecret              = "JURISTRACK_JWT_SECRET"
	EnvJWTIssuer              = "JURISTRACK_JWT_ISSUER"
	EnvJWTExpMins             = "JURISTRACK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "JURISTRACK_REFRESH_TOKEN_TTL_MINUTES"
	EnvDataJudAPIKey          = "JURISTRACK_DATAJUD_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
