// Package config отвечает за конфигурацию сервиса: значения по умолчанию,
// флаги командной строки, .env файл и переменные окружения.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/subosito/gotenv"
)

// Поддерживаемые рантаймы модели
const (
	BackendONNX    = "onnx"
	BackendRemote  = "remote"
	BackendLexicon = "lexicon"
)

// Поддерживаемые локали отображения меток
const (
	LocaleEN = "en"
	LocaleTH = "th"
)

// Config хранит конфигурацию приложения.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS"` // Адрес для запуска HTTP-сервера
	EnableHTTPS   bool   `env:"ENABLE_HTTPS"`   // Включить HTTPS
	TLSCertFile   string `env:"TLS_CERT_FILE"`  // Путь к сертификату
	TLSKeyFile    string `env:"TLS_KEY_FILE"`   // Путь к приватному ключу

	LogLevel  string `env:"LOG_LEVEL"`  // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT"` // json или console

	ModelBackend  string        `env:"MODEL_BACKEND"`   // onnx, remote или lexicon
	ModelPath     string        `env:"MODEL_PATH"`      // Каталог с моделью и токенизатором
	ModelEndpoint string        `env:"MODEL_ENDPOINT"`  // URL сервера инференса для remote
	ModelTimeout  time.Duration `env:"MODEL_TIMEOUT"`   // Таймаут запроса к серверу инференса
	ModelLazyLoad bool          `env:"MODEL_LAZY_LOAD"` // Загружать модель при первом запросе

	YouTubeAPIKey      string `env:"YOUTUBE_API_KEY"`
	YouTubeAccessToken string `env:"YOUTUBE_ACCESS_TOKEN"`
	YouTubeEndpoint    string `env:"YOUTUBE_ENDPOINT"` // Переопределение адреса YouTube Data API

	LabelLocale string `env:"LABEL_LOCALE"` // en или th
	LabelsFile  string `env:"LABELS_FILE"`  // YAML с переопределением меток

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES"`

	EnvFile string `env:"ENV_FILE"` // .env файл, читается до переменных окружения
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		ServerAddress:   ":8000",
		LogLevel:        "info",
		LogFormat:       "json",
		ModelBackend:    BackendONNX,
		ModelPath:       "models/fined_tuned_model",
		ModelTimeout:    30 * time.Second,
		LabelLocale:     LocaleEN,
		ShutdownTimeout: 10 * time.Second,
		MaxUploadBytes:  10 << 20,
		EnvFile:         ".env",
	}
}

// NewConfig инициализирует конфигурацию, читая флаги и переменные окружения.
func NewConfig() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse собирает конфигурацию из аргументов и окружения.
// Приоритет: значения по умолчанию < флаги < .env файл < переменные окружения.
func Parse(args []string) (*Config, error) {
	cfg := Default()

	// 1. Определение флагов командной строки
	fs := flag.NewFlagSet("thai-sentiment", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "Адрес запуска HTTP-сервера (env: SERVER_ADDRESS)")
	fs.BoolVar(&cfg.EnableHTTPS, "s", cfg.EnableHTTPS, "Включить HTTPS (env: ENABLE_HTTPS)")
	fs.StringVar(&cfg.TLSCertFile, "cert", cfg.TLSCertFile, "Файл сертификата (env: TLS_CERT_FILE)")
	fs.StringVar(&cfg.TLSKeyFile, "key", cfg.TLSKeyFile, "Файл ключа (env: TLS_KEY_FILE)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Уровень логирования (env: LOG_LEVEL)")
	fs.StringVar(&cfg.ModelBackend, "backend", cfg.ModelBackend, "Рантайм модели: onnx, remote, lexicon (env: MODEL_BACKEND)")
	fs.StringVar(&cfg.ModelPath, "m", cfg.ModelPath, "Каталог модели (env: MODEL_PATH)")
	fs.StringVar(&cfg.ModelEndpoint, "model-endpoint", cfg.ModelEndpoint, "URL сервера инференса (env: MODEL_ENDPOINT)")
	fs.StringVar(&cfg.LabelLocale, "locale", cfg.LabelLocale, "Локаль меток: en, th (env: LABEL_LOCALE)")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Путь к .env файлу (env: ENV_FILE)")

	// 2. Парсинг флагов командной строки
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// 3. .env файл не перезаписывает уже заданные переменные окружения
	envFile := cfg.EnvFile
	if v := os.Getenv("ENV_FILE"); v != "" {
		envFile = v
	}
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	// 4. Парсинг переменных окружения (имеет наивысший приоритет)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.ModelBackend {
	case BackendONNX:
		if c.ModelPath == "" {
			return errors.New("model path is required for onnx backend")
		}
	case BackendRemote:
		if c.ModelEndpoint == "" {
			return errors.New("model endpoint is required for remote backend")
		}
	case BackendLexicon:
	default:
		return fmt.Errorf("unknown model backend %q", c.ModelBackend)
	}

	switch c.LabelLocale {
	case LocaleEN, LocaleTH:
	default:
		return fmt.Errorf("unknown label locale %q", c.LabelLocale)
	}

	if c.EnableHTTPS && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return errors.New("TLS certificate and key are required when HTTPS is enabled")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload size must be positive")
	}
	return nil
}

// IsHTTPSEnabled проверяет, включен ли HTTPS
func (c *Config) IsHTTPSEnabled() bool {
	return c.EnableHTTPS
}
