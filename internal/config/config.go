package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Kafka Kafka `validate:"required"`

	Postgres Postgres `validate:"required"`

	Cache Cache

	Pricing Pricing `validate:"required"`

	Certification Certification `validate:"required"`

	Intake Intake `validate:"required"`
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type Kafka struct {
	GroupID            string   `validate:"required"`
	Brokers            []string `validate:"required,min=1,dive,hostname_port"`
	PaymentsTopic      string   `validate:"required"`
	NotificationsTopic string   `validate:"required"`

	ReaderMaxWait time.Duration `validate:"gte=0"`
	BatchTimeout  time.Duration `validate:"gte=0"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

type Cache struct {
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

// Pricing holds the quote tables in integer cents and whole percent.
type Pricing struct {
	StandardPageRate  int64 `validate:"gt=0"`
	CertifiedPageRate int64 `validate:"gt=0"`
	SwornPageRate     int64 `validate:"gt=0"`
	RMVPageRate       int64 `validate:"gt=0"`

	PrioritySurchargePct int64 `validate:"gte=0"`
	UrgentSurchargePct   int64 `validate:"gte=0"`

	CertificationFee int64 `validate:"gte=0"`
	ShippingFee      int64 `validate:"gte=0"`

	Languages   []string `validate:"required,min=2"`
	SwornTarget string   `validate:"required"`
}

type Certification struct {
	SigningKey           string `validate:"required"`
	CertifierName        string `validate:"required"`
	CertifierCredentials string `validate:"required"`
}

type Intake struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Kafka: Kafka{
			GroupID:            env("KAFKA_GROUP_ID", "translation-orders"),
			Brokers:            strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),
			PaymentsTopic:      env("KAFKA_PAYMENTS_TOPIC", "payments"),
			NotificationsTopic: env("KAFKA_NOTIFICATIONS_TOPIC", "notifications"),

			ReaderMaxWait: envDuration("KAFKA_READER_MAX_WAIT", 10*time.Millisecond),
			BatchTimeout:  envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "translation_orders"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 1000),
			TTL:      envDuration("CACHE_TTL", 10*time.Minute),
		},

		Pricing: Pricing{
			StandardPageRate:  envCents("PRICE_STANDARD_PAGE", 2000),
			CertifiedPageRate: envCents("PRICE_CERTIFIED_PAGE", 2500),
			SwornPageRate:     envCents("PRICE_SWORN_PAGE", 3500),
			RMVPageRate:       envCents("PRICE_RMV_PAGE", 3000),

			PrioritySurchargePct: envCents("PRICE_PRIORITY_PCT", 20),
			UrgentSurchargePct:   envCents("PRICE_URGENT_PCT", 50),

			CertificationFee: envCents("PRICE_CERTIFICATION_FEE", 1000),
			ShippingFee:      envCents("PRICE_SHIPPING_FEE", 1250),

			Languages:   strings.Split(env("LANGUAGES", "en,es,pt,fr,de,it,ru,zh"), ","),
			SwornTarget: env("SWORN_TARGET_LANGUAGE", "pt"),
		},

		Certification: Certification{
			SigningKey:           env("CERTIFICATION_SIGNING_KEY", ""),
			CertifierName:        env("CERTIFIER_NAME", ""),
			CertifierCredentials: env("CERTIFIER_CREDENTIALS", ""),
		},

		Intake: Intake{
			BaseURL: env("INTAKE_BASE_URL", "http://localhost:8090"),
			Timeout: envDuration("INTAKE_TIMEOUT", 30*time.Second),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envCents(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
