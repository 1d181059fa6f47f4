package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "deliveryfront"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "DELIVERYFRONT_DB_DSN"
	EnvDBHost = "DELIVERYFRONT_DB_HOST"
	EnvDBUser = "DELIVERYFRONT_DB_USER"
	EnvDBName = "DELIVERYFRONT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	Checkout      CheckoutConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DELIVERYFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"DELIVERYFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DELIVERYFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"DELIVERYFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"DELIVERYFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DELIVERYFRONT_DB_DSN"`
	Driver string `envconfig:"DELIVERYFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DELIVERYFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"DELIVERYFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DELIVERYFRONT_DB_USER"`
	LegacyPassword string `envconfig:"DELIVERYFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"DELIVERYFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"DELIVERYFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DELIVERYFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DELIVERYFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DELIVERYFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DELIVERYFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DELIVERYFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DELIVERYFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"DELIVERYFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"DELIVERYFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DELIVERYFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DELIVERYFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DELIVERYFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DELIVERYFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DELIVERYFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"DELIVERYFRONT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DELIVERYFRONT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"DELIVERYFRONT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"DELIVERYFRONT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DELIVERYFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DELIVERYFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DELIVERYFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DELIVERYFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DELIVERYFRONT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"DELIVERYFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"DELIVERYFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"DELIVERYFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"DELIVERYFRONT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"DELIVERYFRONT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"DELIVERYFRONT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CartConfig struct {
	// ClearOnLogout controls whether logout wipes the customer's saved cart.
	// The historical behavior keeps the cart, so this defaults off.
	ClearOnLogout bool          `envconfig:"DELIVERYFRONT_CART_CLEAR_ON_LOGOUT" default:"false"`
	TTL           time.Duration `envconfig:"DELIVERYFRONT_CART_TTL" default:"720h"`
}

type CheckoutConfig struct {
	DeliveryFee string `envconfig:"DELIVERYFRONT_CHECKOUT_DELIVERY_FEE" default:"5.00"`
}

// Fee parses the configured delivery fee. validate() guarantees this
// succeeds after Load.
func (c CheckoutConfig) Fee() decimal.Decimal {
	fee, err := decimal.NewFromString(c.DeliveryFee)
	if err != nil {
		return decimal.Zero
	}
	return fee
}

func (c CheckoutConfig) validate() error {
	fee, err := decimal.NewFromString(c.DeliveryFee)
	if err != nil {
		return fmt.Errorf("invalid delivery fee %q: %w", c.DeliveryFee, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("delivery fee cannot be negative")
	}
	return nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DELIVERYFRONT_AUTO_MIGRATE" default:"false"`
	UseSQLite   bool `envconfig:"DELIVERYFRONT_USE_SQLITE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
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
