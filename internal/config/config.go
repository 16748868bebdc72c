package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	SettingsBackendRedis = "redis"
	SettingsBackendFile  = "file"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DatabaseURL      string // あれば最優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークンの有効期限

	FEURL string // フロントURL（CORS）

	RedisURL        string
	SettingsBackend string // redis / file
	SettingsFile    string

	DefaultShippingCost decimal.Decimal // 送料が読めないときの値
	PriceDriftTolerance decimal.Decimal // 負なら価格チェックしない

	RateLimit string // ulule/limiter形式 "30-M"

	OTLPEndpoint string
	ServiceName  string

	// 起動時に作る管理者（任意）
	AdminEmail    string
	AdminPassword string
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev" || c.GoEnv == "development"
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	jwtTTL, err := durationDefault("JWT_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	shipping, err := decimalDefault("DEFAULT_SHIPPING_COST", "500")
	if err != nil {
		return Config{}, err
	}
	tolerance, err := decimalDefault("PRICE_DRIFT_TOLERANCE", "0.01")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "storeadmin"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    jwtTTL,

		FEURL: getenv("FE_URL", "http://localhost:3000"),

		RedisURL:     os.Getenv("REDIS_URL"),
		SettingsFile: getenv("SETTINGS_FILE", "config/shipping_config.json"),

		DefaultShippingCost: shipping,
		PriceDriftTolerance: tolerance,

		RateLimit: getenv("RATE_LIMIT", "30-M"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  getenv("SERVICE_NAME", "storeadmin"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	//REDIS_URLがあればredis、無ければファイル
	cfg.SettingsBackend = strings.ToLower(os.Getenv("SETTINGS_BACKEND"))
	if cfg.SettingsBackend == "" {
		cfg.SettingsBackend = SettingsBackendFile
		if cfg.RedisURL != "" {
			cfg.SettingsBackend = SettingsBackendRedis
		}
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.SettingsBackend {
	case SettingsBackendFile:
	case SettingsBackendRedis:
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL is required when SETTINGS_BACKEND=redis")
		}
	default:
		return Config{}, fmt.Errorf("SETTINGS_BACKEND must be redis or file: %q", cfg.SettingsBackend)
	}
	if cfg.DefaultShippingCost.IsNegative() {
		return Config{}, fmt.Errorf("DEFAULT_SHIPPING_COST must be >= 0")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// DSN はgorm postgres用の接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func decimalDefault(key string, def string) (decimal.Decimal, error) {
	v := getenv(key, def)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be number: %w", key, err)
	}
	return d, nil
}
