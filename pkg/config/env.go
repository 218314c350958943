package config

const (
	EnvPrefix = "BLOOMKART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	PincodeStrategyThreshold = "threshold"
	PincodeStrategyZones     = "zones"
)

const (
	EnvAppEnv   = "BLOOMKART_APP_ENV"
	EnvPort     = "BLOOMKART_APP_PORT"
	EnvLogLevel = "BLOOMKART_LOG_LEVEL"

	EnvDBDSN  = "BLOOMKART_DB_DSN"
	EnvDBHost = "BLOOMKART_DB_HOST"
	EnvDBUser = "BLOOMKART_DB_USER"
	EnvDBName = "BLOOMKART_DB_NAME"

	EnvRedisURL = "BLOOMKART_REDIS_URL"

	EnvJWTSecret = "BLOOMKART_JWT_SECRET"
	EnvJWTIssuer = "BLOOMKART_JWT_ISSUER"

	EnvComboDiscountRate  = "BLOOMKART_COMBO_DISCOUNT_RATE"
	EnvComboStandardFee   = "BLOOMKART_COMBO_STANDARD_DELIVERY_FEE"
	EnvComboFreeThreshold = "BLOOMKART_COMBO_FREE_DELIVERY_THRESHOLD"
	EnvComboSessionTTL    = "BLOOMKART_COMBO_SESSION_TTL"

	EnvPincodeStrategy  = "BLOOMKART_PINCODE_STRATEGY"
	EnvPincodeThreshold = "BLOOMKART_PINCODE_THRESHOLD_LIMIT"

	EnvCartAPIBaseURL = "BLOOMKART_CART_API_BASE_URL"

	EnvUseSQLite = "BLOOMKART_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
