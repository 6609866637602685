package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	DataJud       DataJudConfig
	Stripe        StripeConfig
	Gemini        GeminiConfig
	Billing       BillingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JURISTRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"JURISTRACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"JURISTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JURISTRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"JURISTRACK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"JURISTRACK_DB_DSN"`
	Driver string `envconfig:"JURISTRACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JURISTRACK_DB_HOST"`
	LegacyPort     int    `envconfig:"JURISTRACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JURISTRACK_DB_USER"`
	LegacyPassword string `envconfig:"JURISTRACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"JURISTRACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"JURISTRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JURISTRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JURISTRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JURISTRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JURISTRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JURISTRACK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"JURISTRACK_REDIS_ADDR"`
	Password     string        `envconfig:"JURISTRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"JURISTRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JURISTRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JURISTRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JURISTRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JURISTRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JURISTRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"JURISTRACK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"JURISTRACK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"JURISTRACK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"JURISTRACK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"JURISTRACK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"JURISTRACK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"JURISTRACK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"JURISTRACK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"JURISTRACK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"JURISTRACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"JURISTRACK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"JURISTRACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"JURISTRACK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"JURISTRACK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"JURISTRACK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"JURISTRACK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"JURISTRACK_AUTO_MIGRATE" default:"false"`
}

type DataJudConfig struct {
	APIKey  string        `envconfig:"JURISTRACK_DATAJUD_API_KEY" required:"true"`
	BaseURL string        `envconfig:"JURISTRACK_DATAJUD_BASE_URL" default:"https://api-publica.datajud.cnj.jus.br"`
	Timeout time.Duration `envconfig:"JURISTRACK_DATAJUD_TIMEOUT" default:"30s"`
}

type StripeConfig struct {
	APIKey     string `envconfig:"JURISTRACK_STRIPE_API_KEY"`
	Secret     string `envconfig:"JURISTRACK_STRIPE_SECRET"`
	Env        string `envconfig:"JURISTRACK_STRIPE_ENV" default:"test"`
	SuccessURL string `envconfig:"JURISTRACK_STRIPE_SUCCESS_URL" default:"http://localhost:3000/billing/success"`
	CancelURL  string `envconfig:"JURISTRACK_STRIPE_CANCEL_URL" default:"http://localhost:3000/billing/cancel"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"JURISTRACK_GEMINI_API_KEY"`
	BaseURL string        `envconfig:"JURISTRACK_GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Model   string        `envconfig:"JURISTRACK_GEMINI_MODEL" default:"gemini-1.5-flash"`
	Timeout time.Duration `envconfig:"JURISTRACK_GEMINI_TIMEOUT" default:"30s"`
}

type BillingConfig struct {
	ReconcileBatchSize int `envconfig:"JURISTRACK_BILLING_RECONCILE_BATCH_SIZE" default:"100"`
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
