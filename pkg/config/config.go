package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Combo        ComboConfig
	Pincode      PincodeConfig
	CartAPI      CartAPIConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every inconsistent combo/pincode setting at once.
func (c *Config) Validate() error {
	var err error
	err = multierr.Append(err, c.Combo.validate())
	err = multierr.Append(err, c.Pincode.validate())
	return err
}

type AppConfig struct {
	Env          string        `envconfig:"BLOOMKART_APP_ENV" required:"true"`
	Port         string        `envconfig:"BLOOMKART_APP_PORT" required:"true"`
	LogLevel     string        `envconfig:"BLOOMKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool          `envconfig:"BLOOMKART_LOG_WARN_STACK" default:"false"`
	ShutdownWait time.Duration `envconfig:"BLOOMKART_SHUTDOWN_WAIT" default:"15s"`
	CORSOrigins  []string      `envconfig:"BLOOMKART_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"BLOOMKART_DB_DSN"`
	Driver string `envconfig:"BLOOMKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BLOOMKART_DB_HOST"`
	LegacyPort     int    `envconfig:"BLOOMKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BLOOMKART_DB_USER"`
	LegacyPassword string `envconfig:"BLOOMKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"BLOOMKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"BLOOMKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLOOMKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLOOMKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLOOMKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLOOMKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BLOOMKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BLOOMKART_REDIS_ADDR"`
	Password     string        `envconfig:"BLOOMKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLOOMKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLOOMKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLOOMKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLOOMKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLOOMKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLOOMKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig verifies admin dashboard tokens minted by the main backend.
type JWTConfig struct {
	Secret            string `envconfig:"BLOOMKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BLOOMKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BLOOMKART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// ComboConfig overrides the combo pricing constants. Amounts are rupees.
type ComboConfig struct {
	DiscountRate          string        `envconfig:"BLOOMKART_COMBO_DISCOUNT_RATE" default:"0.20"`
	StandardDeliveryFee   string        `envconfig:"BLOOMKART_COMBO_STANDARD_DELIVERY_FEE" default:"199"`
	FreeDeliveryThreshold string        `envconfig:"BLOOMKART_COMBO_FREE_DELIVERY_THRESHOLD" default:"1500"`
	SessionTTL            time.Duration `envconfig:"BLOOMKART_COMBO_SESSION_TTL" default:"720h"`
}

// Amounts parses the decimal settings. Callers should run Validate first.
func (c ComboConfig) Amounts() (rate, fee, threshold decimal.Decimal, err error) {
	if rate, err = decimal.NewFromString(strings.TrimSpace(c.DiscountRate)); err != nil {
		return rate, fee, threshold, fmt.Errorf("%s: %w", EnvComboDiscountRate, err)
	}
	if fee, err = decimal.NewFromString(strings.TrimSpace(c.StandardDeliveryFee)); err != nil {
		return rate, fee, threshold, fmt.Errorf("%s: %w", EnvComboStandardFee, err)
	}
	if threshold, err = decimal.NewFromString(strings.TrimSpace(c.FreeDeliveryThreshold)); err != nil {
		return rate, fee, threshold, fmt.Errorf("%s: %w", EnvComboFreeThreshold, err)
	}
	return rate, fee, threshold, nil
}

func (c ComboConfig) validate() error {
	rate, fee, threshold, err := c.Amounts()
	if err != nil {
		return err
	}
	var errs error
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		errs = multierr.Append(errs, fmt.Errorf("%s must be between 0 and 1", EnvComboDiscountRate))
	}
	if fee.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("%s must be non-negative", EnvComboStandardFee))
	}
	if threshold.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("%s must be non-negative", EnvComboFreeThreshold))
	}
	if c.SessionTTL < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be non-negative", EnvComboSessionTTL))
	}
	return errs
}

type PincodeConfig struct {
	Strategy        string        `envconfig:"BLOOMKART_PINCODE_STRATEGY" default:"threshold"`
	ThresholdLimit  int           `envconfig:"BLOOMKART_PINCODE_THRESHOLD_LIMIT" default:"500000"`
	Timeout         time.Duration `envconfig:"BLOOMKART_PINCODE_TIMEOUT" default:"5s"`
	RateLimitWindow time.Duration `envconfig:"BLOOMKART_PINCODE_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitIP     int           `envconfig:"BLOOMKART_PINCODE_RATE_LIMIT_IP" default:"30"`
	RateLimitSess   int           `envconfig:"BLOOMKART_PINCODE_RATE_LIMIT_SESSION" default:"10"`
}

func (p PincodeConfig) validate() error {
	var errs error
	switch strings.ToLower(strings.TrimSpace(p.Strategy)) {
	case PincodeStrategyThreshold, PincodeStrategyZones:
	default:
		errs = multierr.Append(errs, fmt.Errorf("%s must be %q or %q", EnvPincodeStrategy, PincodeStrategyThreshold, PincodeStrategyZones))
	}
	if p.ThresholdLimit <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvPincodeThreshold))
	}
	if p.Timeout < 0 {
		errs = multierr.Append(errs, errors.New("pincode timeout must be non-negative"))
	}
	return errs
}

// NormalizedStrategy returns the lowercased strategy name.
func (p PincodeConfig) NormalizedStrategy() string {
	return strings.ToLower(strings.TrimSpace(p.Strategy))
}

// CartAPIConfig points at the external backend that receives finalized combos.
type CartAPIConfig struct {
	BaseURL string        `envconfig:"BLOOMKART_CART_API_BASE_URL"`
	Token   string        `envconfig:"BLOOMKART_CART_API_TOKEN"`
	Timeout time.Duration `envconfig:"BLOOMKART_CART_API_TIMEOUT" default:"10s"`
}

// Enabled reports whether finalized combos should be forwarded.
func (c CartAPIConfig) Enabled() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BLOOMKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BLOOMKART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(sqlite bool) error {
	if sqlite {
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = "file:bloomkart.db?cache=shared"
		}
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
