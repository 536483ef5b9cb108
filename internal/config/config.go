package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultCatalogBaseURL = "https://www.wildberries.ru"

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // disable / require

	JWTSecret string // 空ならPOST /api/parseは認証なし

	SearchURL      string        // WB検索API（空ならクライアントの既定値）
	CatalogBaseURL string        // 商品ページURLのベース
	FetchTimeout   time.Duration // 検索APIの待ち時間の上限
	DefaultLimit   int           // limit未指定時の件数

	GoEnv    string // dev/prod
	LogLevel string // DEBUG/INFO/WARN/ERROR
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	defaultLimit, err := atoiOr("DEFAULT_LIMIT", 10)
	if err != nil {
		return Config{}, err
	}
	timeout, err := durationOr("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "wbparser"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SearchURL:      os.Getenv("WB_SEARCH_URL"),
		CatalogBaseURL: getenv("WB_CATALOG_BASE_URL", defaultCatalogBaseURL),
		FetchTimeout:   timeout,
		DefaultLimit:   defaultLimit,

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "INFO"),
	}

	//値チェック
	if cfg.PostgresPort <= 0 {
		return Config{}, fmt.Errorf("POSTGRES_PORT must be positive")
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if cfg.DefaultLimit < 1 {
		return Config{}, fmt.Errorf("DEFAULT_LIMIT must be >= 1")
	}

	return cfg, nil
}

// DSN はPostgresの接続文字列を返す。DATABASE_URLがあればそれを使う。
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) IsDev() bool {
	return c.GoEnv == "" || c.GoEnv == "dev"
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
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

func durationOr(key string, def time.Duration) (time.Duration, error) {
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
