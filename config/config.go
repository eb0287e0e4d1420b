package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"shop-service/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	App     App
	DB      DB
	Redis   Redis
	Kafka   Kafka
	JWT     JWT
	SMTP    SMTP
	Cleanup Cleanup
}

type App struct {
	Port        string
	CORSOrigins []string
}

type DB struct {
	database.Config
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Kafka struct {
	Brokers     []string
	GroupID     string
	TopicEmail  string
	TopicOrders string
}

type JWT struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessExp  time.Duration
	RefreshExp time.Duration
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	TMPLDir  string
	SSL      bool
}

type Cleanup struct {
	CartTTL          time.Duration
	CartInterval     time.Duration
	DiscountInterval time.Duration
}

// Load читает конфигурацию HTTP-сервиса
func Load(log *zap.Logger) *Config {
	return &Config{
		App: App{
			Port:        getEnv("APP_PORT", log),
			CORSOrigins: splitAndTrim(os.Getenv("CORS_ORIGINS")),
		},
		DB:    loadDB(log),
		Redis: loadRedis(log),
		Kafka: Kafka{
			Brokers:     splitAndTrim(getEnv("KAFKA_BROKERS", log)),
			TopicEmail:  getEnv("KAFKA_TOPIC_EMAIL", log),
			TopicOrders: getEnv("KAFKA_TOPIC_ORDERS", log),
		},
		JWT: JWT{
			Secret:     getEnv("JWT_SECRET", log),
			Issuer:     getEnv("JWT_ISSUER", log),
			Audience:   getEnv("JWT_AUDIENCE", log),
			AccessExp:  parseDurationWithDays(getEnv("ACCESS_EXP", log)),
			RefreshExp: durationDefault(os.Getenv("REFRESH_EXP"), 30*24*time.Hour),
		},
	}
}

// LoadMigrate читает только параметры подключения к БД
func LoadMigrate(log *zap.Logger) *Config {
	return &Config{DB: loadDB(log)}
}

func LoadNotifier(log *zap.Logger) *Config {
	return &Config{
		Kafka: Kafka{
			Brokers:    splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			GroupID:    getEnv("KAFKA_GROUP_ID", log),
			TopicEmail: getEnv("KAFKA_TOPIC_EMAIL", log),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", log),
			Port:     getEnvInt("SMTP_PORT", log),
			User:     getEnv("SMTP_USER", log),
			Password: getEnv("SMTP_PASSWORD", log),
			From:     getEnv("SMTP_FROM", log),
			TMPLDir:  getEnv("TMPL_DIR", log),
			SSL:      os.Getenv("SMTP_SSL") != "false",
		},
	}
}

func LoadCleanup(log *zap.Logger) *Config {
	return &Config{
		DB: loadDB(log),
		Cleanup: Cleanup{
			CartTTL:          durationDefault(os.Getenv("CART_TTL"), 7*24*time.Hour),
			CartInterval:     durationDefault(os.Getenv("CLEANUP_CART_INTERVAL"), time.Hour),
			DiscountInterval: durationDefault(os.Getenv("CLEANUP_DISCOUNT_INTERVAL"), 30*time.Minute),
		},
	}
}

func loadDB(log *zap.Logger) DB {
	return DB{
		Config: database.Config{
			Host:     getEnv("DB_HOST", log),
			Port:     getEnv("DB_PORT", log),
			User:     getEnv("DB_USER", log),
			Password: getEnv("DB_PASSWORD", log),
			Name:     getEnv("DB_NAME", log),
			SSLMode:  getEnv("DB_SSLMODE", log),
		},
	}
}

func loadRedis(log *zap.Logger) Redis {
	return Redis{
		Addr:     getEnv("REDIS_ADDR", log),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       atoiDefault(os.Getenv("REDIS_DB"), 0),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvInt(key string, log *zap.Logger) int {
	valStr := getEnv(key, log)
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Error("Ошибка преобразования переменной окружения в int", zap.String("key", key), zap.Error(err))
		panic("invalid int value for environment variable: " + key)
	}
	return val
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}

// parseDurationWithDays понимает time.ParseDuration и суффикс "d" (например "7d")
func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			log.Printf("Ошибка парсинга длительности %q: %v", s, err)
			return 0
		}
		return time.Duration(days) * 24 * time.Hour
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

func durationDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d := parseDurationWithDays(s); d > 0 {
		return d
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
