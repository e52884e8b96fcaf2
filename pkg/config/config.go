package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig      `envconfig:"APP"`
	Server   ServerConfig   `envconfig:"SERVER"`
	Database DatabaseConfig `envconfig:"DB"`
	Mongo    MongoConfig    `envconfig:"MONGO"`
	Redis    RedisConfig    `envconfig:"REDIS"`
	JWT      JWTConfig      `envconfig:"JWT"`
	Mailjet  MailjetConfig  `envconfig:"MAILJET"`
	Card     CardConfig     `envconfig:"CARD"`
}

type AppConfig struct {
	Name        string `envconfig:"NAME" default:"Shop Backend API"`
	Version     string `envconfig:"VERSION" default:"1.0.0"`
	Environment string `envconfig:"ENV" default:"development"`
}

type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	AllowOrigins   []string      `envconfig:"ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
}

type DatabaseConfig struct {
	Host        string `envconfig:"HOST" default:"localhost"`
	Port        string `envconfig:"PORT" default:"5432"`
	User        string `envconfig:"USER" default:"postgres"`
	Password    string `envconfig:"PASSWORD" required:"true"`
	Name        string `envconfig:"NAME" default:"shop_backend"`
	SSLMode     string `envconfig:"SSL_MODE" default:"disable"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"false"`
}

type MongoConfig struct {
	URI        string `envconfig:"URI" default:"mongodb://localhost:27017"`
	Database   string `envconfig:"DATABASE" default:"shop_catalog"`
	Collection string `envconfig:"COLLECTION" default:"products"`
}

type RedisConfig struct {
	RedisHost     string `envconfig:"HOST" default:"localhost"`
	RedisPort     string `envconfig:"PORT" default:"6379"`
	RedisPassword string `envconfig:"PASSWORD"`
	RedisDB       int    `envconfig:"DB" default:"0"`

	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type JWTConfig struct {
	SecretKey string        `envconfig:"SECRET" required:"true"`
	TTL       time.Duration `envconfig:"TTL" default:"1h"`
}

type MailjetConfig struct {
	MailjetBaseUrl           string `envconfig:"BASE_URL"`
	MailjetBasicAuthUsername string `envconfig:"BASIC_AUTH_USERNAME"`
	MailjetBasicAuthPassword string `envconfig:"BASIC_AUTH_PASSWORD"`
	MailjetSenderEmail       string `envconfig:"SENDER_EMAIL"`
	MailjetSenderName        string `envconfig:"SENDER_NAME" default:"Shop Backend"`
}

// Enabled reports whether enough Mailjet settings are present to send mail.
func (m MailjetConfig) Enabled() bool {
	return m.MailjetBaseUrl != "" && m.MailjetSenderEmail != ""
}

type CardConfig struct {
	EncryptionKey string `envconfig:"ENCRYPTION_KEY" required:"true"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	switch len(cfg.Card.EncryptionKey) {
	case 16, 24, 32:
	default:
		return nil, errors.New("card encryption key must be 16, 24 or 32 bytes")
	}

	if cfg.JWT.TTL <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}

	return &cfg, nil
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}
