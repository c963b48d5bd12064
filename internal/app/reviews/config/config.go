package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	JWT            JWTConfig
	CatalogService CatalogServiceConfig
	Aggregation    AggregationConfig
}

type ServerConfig struct {
	Host string `validate:"required"` // Адрес хоста (по умолчанию 0.0.0.0)
	Port string `validate:"required"` // Порт сервера (по умолчанию 8083)
}

type DatabaseConfig struct {
	Host     string `validate:"required"` // Хост PostgreSQL
	Port     string `validate:"required"` // Порт PostgreSQL
	User     string `validate:"required"` // Имя пользователя БД
	Password string // Пароль БД
	DBName   string `validate:"required"` // Имя базы данных
	SSLMode  string `validate:"required"` // Режим SSL (disable/require/verify-full)
}

type RedisConfig struct {
	Host     string `validate:"required"` // Хост Redis
	Port     string `validate:"required"` // Порт Redis
	Password string // Пароль Redis (пустой для локальной разработки)
	DB       int    // Номер базы Redis
}

type KafkaConfig struct {
	Brokers []string `validate:"required,min=1"` // Список брокеров Kafka (формат: host:port)
	Topic   string   `validate:"required"`       // Топик для событий REVIEW_CREATED
}

type JWTConfig struct {
	Secret string `validate:"required"` // Секретный ключ для проверки JWT токенов (должен совпадать с Auth Service)
}

type CatalogServiceConfig struct {
	URL string `validate:"required,url"` // URL Catalog Service для резолва SKU
}

type AggregationConfig struct {
	Schedule      string `validate:"required"` // Cron-расписание фонового пересчёта сводных рейтингов
	WindowMinutes int    `validate:"min=1"`    // Окно поиска отзывов со свежими голосами, минуты
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8083"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "reviews_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "review_events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		CatalogService: CatalogServiceConfig{
			URL: getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"),
		},
		Aggregation: AggregationConfig{
			Schedule:      getEnv("AGGREGATION_SCHEDULE", "*/15 * * * *"),
			WindowMinutes: getEnvInt("AGGREGATION_WINDOW_MINUTES", 30),
		},
	}

	// Структурная проверка конфигурации до старта сервиса
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
