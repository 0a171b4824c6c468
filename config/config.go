package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpServer     HttpServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	HttpClient     HttpClientConfig
	MessageStream  MessageStreamConfig
	UserService    UserServiceConfig
	BlobStorage    BlobStorageConfig
	PaymentGateway PaymentGatewayConfig
	Notification   NotificationConfig
	Ticketing      TicketingConfig
}

type HttpServerConfig struct {
	Port string `envconfig:"APP_PORT" default:"3000"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Username string `envconfig:"DB_USERNAME" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"ticketing"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"20"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type HttpClientConfig struct {
	Type               string `envconfig:"HTTP_CLIENT_TYPE" default:"consecutive"`
	Threshold          int64  `envconfig:"HTTP_CLIENT_THRESHOLD" default:"10"`
	Timeout            int    `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30"`
	MaxConcurrentConns int    `envconfig:"HTTP_CLIENT_MAX_CONCURRENT_CONNS" default:"100"`
}

type MessageStreamConfig struct {
	Host     string `envconfig:"AMQP_HOST" default:"localhost"`
	Port     string `envconfig:"AMQP_PORT" default:"5672"`
	Username string `envconfig:"AMQP_USERNAME" default:"guest"`
	Password string `envconfig:"AMQP_PASSWORD" default:"guest"`
}

type UserServiceConfig struct {
	Host string `envconfig:"USER_SERVICE_HOST" default:"localhost"`
	Port string `envconfig:"USER_SERVICE_PORT" default:"8081"`
}

type BlobStorageConfig struct {
	Host   string `envconfig:"BLOB_STORAGE_HOST" default:"localhost"`
	Port   string `envconfig:"BLOB_STORAGE_PORT" default:"8082"`
	Folder string `envconfig:"BLOB_STORAGE_FOLDER" default:"event_images"`
}

type PaymentGatewayConfig struct {
	Host        string `envconfig:"PAYMENT_GATEWAY_HOST" default:"localhost"`
	Port        string `envconfig:"PAYMENT_GATEWAY_PORT" default:"8083"`
	SuccessURL  string `envconfig:"PAYMENT_GATEWAY_SUCCESS_URL" default:"http://localhost:3001/payment"`
	CancelURL   string `envconfig:"PAYMENT_GATEWAY_CANCEL_URL" default:"http://localhost:3001/payment/cancel"`
	CurrencyISO string `envconfig:"PAYMENT_GATEWAY_CURRENCY" default:"usd"`
}

type NotificationConfig struct {
	Host   string `envconfig:"NOTIFICATION_HOST" default:"localhost"`
	Port   string `envconfig:"NOTIFICATION_PORT" default:"8084"`
	Sender string `envconfig:"NOTIFICATION_SENDER" default:"no-reply@gosports.example"`
}

type TicketingConfig struct {
	ProofSecret  string `envconfig:"TICKET_PROOF_SECRET" default:"change-me"`
	TicketPrefix string `envconfig:"TICKET_PREFIX" default:"TCK"`
}

func InitConfig() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("error load config: %v", err)
	}
	return &cfg
}
