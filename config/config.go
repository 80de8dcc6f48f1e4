package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Token    TokenConfig    `mapstructure:"token"`
	Invoice  InvoiceConfig  `mapstructure:"invoice"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Device   DeviceConfig   `mapstructure:"device"`
	Pay      PayConfig      `mapstructure:"pay"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TokenConfig configures invoice capability tokens. Secret is read once at
// startup and handed to the signer by value.
type TokenConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type InvoiceConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	PayURLBase string        `mapstructure:"pay_url_base"`
}

// WalletConfig bounds top-ups. Amounts are decimal strings.
type WalletConfig struct {
	MinTopup string `mapstructure:"min_topup"`
	MaxTopup string `mapstructure:"max_topup"`
	Presets  []int  `mapstructure:"presets"`
}

// MinTopupAmount parses MinTopup. Call after Validate.
func (w WalletConfig) MinTopupAmount() decimal.Decimal {
	return decimal.RequireFromString(w.MinTopup)
}

// MaxTopupAmount parses MaxTopup. Call after Validate.
func (w WalletConfig) MaxTopupAmount() decimal.Decimal {
	return decimal.RequireFromString(w.MaxTopup)
}

type DeviceConfig struct {
	RequireSecret bool `mapstructure:"require_secret"`
	AutoCreate    bool `mapstructure:"auto_create"`
}

type PayConfig struct {
	GuestRequiresToken bool `mapstructure:"guest_requires_token"`
}

// JWTConfig configures validation of bearer tokens minted by the identity service.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	Workers int      `mapstructure:"workers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: KSP_ (kiosk settlement platform).
// Nested keys use underscore: KSP_DATABASE_HOST, KSP_TOKEN_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "kiosk_settlement")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("token.secret", "")
	v.SetDefault("token.ttl", "900s")
	v.SetDefault("invoice.ttl", "15m")
	v.SetDefault("invoice.pay_url_base", "http://localhost:8080/pay")
	v.SetDefault("wallet.min_topup", "1.00")
	v.SetDefault("wallet.max_topup", "500.00")
	v.SetDefault("wallet.presets", []int{1, 2, 5, 10, 20, 50})
	v.SetDefault("device.require_secret", true)
	v.SetDefault("device.auto_create", true)
	v.SetDefault("pay.guest_requires_token", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "kiosk-identity")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "settlements")
	v.SetDefault("kafka.workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: KSP_DATABASE_HOST -> database.host
	v.SetEnvPrefix("KSP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that cannot be expressed as viper defaults.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("database.driver %q: want %s or %s", c.Database.Driver, DriverPostgres, DriverMemory)
	}
	if c.Token.TTL <= 0 {
		return errors.New("token.ttl must be positive")
	}
	if c.Invoice.TTL <= 0 {
		return errors.New("invoice.ttl must be positive")
	}

	minTopup, err := decimal.NewFromString(c.Wallet.MinTopup)
	if err != nil {
		return fmt.Errorf("wallet.min_topup: %w", err)
	}
	maxTopup, err := decimal.NewFromString(c.Wallet.MaxTopup)
	if err != nil {
		return fmt.Errorf("wallet.max_topup: %w", err)
	}
	if !minTopup.IsPositive() || maxTopup.LessThan(minTopup) {
		return fmt.Errorf("wallet top-up bounds [%s, %s] are invalid", c.Wallet.MinTopup, c.Wallet.MaxTopup)
	}
	for _, p := range c.Wallet.Presets {
		if p <= 0 {
			return fmt.Errorf("wallet.presets: %d is not positive", p)
		}
	}

	if c.Server.Mode == "release" && c.Token.Secret == "" {
		return errors.New("token.secret is required in release mode")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return errors.New("kafka.brokers and kafka.topic are required when kafka is enabled")
	}
	return nil
}
