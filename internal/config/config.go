package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server              ServerConfig
	Database            DatabaseConfig
	Redis               RedisConfig
	Kafka               KafkaConfig
	Auth                AuthConfig
	Pricing             PricingConfig
	NotificationService ServiceConfig
	UserService         ServiceConfig
	Features            FeatureFlags
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	OrdersTopic   string
	ConsumerGroup string
}

type AuthConfig struct {
	JWTSecret  string
	CookieName string
}

// PricingConfig holds the order-total parameters: tax rate, the subtotal
// threshold above which shipping is free, and the flat shipping fee below it.
type PricingConfig struct {
	TaxRate         decimal.Decimal
	FreeShippingMin decimal.Decimal
	ShippingFee     decimal.Decimal
}

type ServiceConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type FeatureFlags struct {
	EnableOrderCaching    bool
	EnableOrderEvents     bool
	EnableNotifications   bool
	EnableBuyerValidation bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8082),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "bloomkart"),
			Password:     getEnvString("DB_PASSWORD", "bloomkart"),
			Name:         getEnvString("DB_NAME", "bloomkart_orders"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnvString("KAFKA_BROKERS", "localhost:9092"), ","),
			OrdersTopic:   getEnvString("KAFKA_ORDERS_TOPIC", "orders.events"),
			ConsumerGroup: getEnvString("KAFKA_CONSUMER_GROUP", "orders-service"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnvString("JWT_SECRET", "dev-secret-change-me"),
			CookieName: getEnvString("JWT_COOKIE_NAME", "token"),
		},
		Pricing: PricingConfig{
			TaxRate:         getEnvDecimal("PRICING_TAX_RATE", "0.18"),
			FreeShippingMin: getEnvDecimal("PRICING_FREE_SHIPPING_MIN", "500"),
			ShippingFee:     getEnvDecimal("PRICING_SHIPPING_FEE", "50"),
		},
		NotificationService: ServiceConfig{
			BaseURL: getEnvString("NOTIFICATION_SERVICE_URL", "http://localhost:8085"),
			APIKey:  getEnvString("NOTIFICATION_SERVICE_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("NOTIFICATION_SERVICE_TIMEOUT", 10)) * time.Second,
		},
		UserService: ServiceConfig{
			BaseURL: getEnvString("USER_SERVICE_URL", "http://localhost:8081"),
			APIKey:  getEnvString("USER_SERVICE_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("USER_SERVICE_TIMEOUT", 10)) * time.Second,
		},
		Features: FeatureFlags{
			EnableOrderCaching:    getEnvBool("FEATURE_ORDER_CACHING", true),
			EnableOrderEvents:     getEnvBool("FEATURE_ORDER_EVENTS", true),
			EnableNotifications:   getEnvBool("FEATURE_NOTIFICATIONS", true),
			EnableBuyerValidation: getEnvBool("FEATURE_BUYER_VALIDATION", false),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(defaultValue)
	return d
}
