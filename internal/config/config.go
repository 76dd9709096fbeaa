package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"deckswipe-server/shared/utils"

	"github.com/kelseyhightower/envconfig"
)

// Progress backends.
const (
	ProgressBackendFile     = "file"
	ProgressBackendPostgres = "postgres"
	ProgressBackendRedis    = "redis"
)

// Config содержит конфигурацию игрового сервера
type Config struct {
	// Настройки сервера
	Port            string        `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding     string        `envconfig:"LOG_ENCODING" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	// Коллекция карт
	CollectionPath            string        `envconfig:"COLLECTION_PATH" default:"collection.json"`
	CollectionURL             string        `envconfig:"COLLECTION_URL"`
	CollectionTimeout         time.Duration `envconfig:"COLLECTION_TIMEOUT" default:"10s"`
	LoadRemoteCollectionFirst bool          `envconfig:"LOAD_REMOTE_COLLECTION_FIRST" default:"false"`

	// Игровой процесс
	SaveInterval int           `envconfig:"SAVE_INTERVAL" default:"8"`
	LoadTimeout  time.Duration `envconfig:"SESSION_LOAD_TIMEOUT" default:"15s"`

	// Хранилище прогресса
	ProgressBackend string        `envconfig:"PROGRESS_BACKEND" default:"file"`
	ProgressDir     string        `envconfig:"PROGRESS_DIR" default:"progress"`
	ProgressTTL     time.Duration `envconfig:"PROGRESS_TTL" default:"0"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"deckswipe"`
	DBName        string        `envconfig:"DB_NAME" default:"deckswipe"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Секретное поле БЕЗ envconfig тега
	DBPassword string `ignored:"true"`

	// Настройки Redis
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	// Настройки RabbitMQ (пустой URL отключает события забегов)
	RabbitMQURL    string `envconfig:"RABBITMQ_URL"`
	RunEventsQueue string `envconfig:"RUN_EVENTS_QUEUE" default:"deckswipe_run_events"`
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения и секретов
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	cfg.ProgressBackend = strings.ToLower(strings.TrimSpace(cfg.ProgressBackend))

	switch cfg.ProgressBackend {
	case ProgressBackendFile, ProgressBackendRedis:
	case ProgressBackendPostgres:
		// Пароль нужен только для postgres
		password, err := utils.ReadSecretOrEnv("db_password", "DB_PASSWORD")
		if err != nil {
			return nil, err
		}
		cfg.DBPassword = password
	default:
		return nil, fmt.Errorf("неизвестный PROGRESS_BACKEND %q (ожидается file, postgres или redis)", cfg.ProgressBackend)
	}

	if cfg.SaveInterval <= 0 {
		return nil, fmt.Errorf("SAVE_INTERVAL должен быть больше нуля, получено %d", cfg.SaveInterval)
	}
	if cfg.CollectionPath == "" && cfg.CollectionURL == "" {
		log.Printf("Источник коллекции не задан, будут использованы запасные карты")
	}

	log.Printf("Конфигурация загружена:")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  Collection: path=%q url=%q remoteFirst=%v", cfg.CollectionPath, cfg.CollectionURL, cfg.LoadRemoteCollectionFirst)
	log.Printf("  Progress backend: %s", cfg.ProgressBackend)
	log.Printf("  Save interval: %d", cfg.SaveInterval)
	if cfg.ProgressBackend == ProgressBackendPostgres {
		log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	}
	if cfg.RabbitMQURL == "" {
		log.Printf("  RabbitMQ: отключен")
	} else {
		log.Printf("  Run events queue: %s", cfg.RunEventsQueue)
	}

	return &cfg, nil
}
