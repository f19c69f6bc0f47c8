// Package config loads runtime configuration from an optional YAML file
// with environment-variable overrides (STORE_ prefix, dots become
// underscores).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	_ "github.com/joho/godotenv/autoload"
)

type HTTPConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// TokenConfig carries one secret per token kind. All three are required
// and must differ.
type TokenConfig struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	ResetSecret   string        `mapstructure:"reset_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	ResetTTL      time.Duration `mapstructure:"reset_ttl"`
	Issuer        string        `mapstructure:"issuer"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

type MailConfig struct {
	APIURL    string `mapstructure:"api_url"`
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type Config struct {
	ServiceName string `mapstructure:"service_name"`
	Env         string `mapstructure:"env"`
	LogLevel    string `mapstructure:"log_level"`

	HTTP  HTTPConfig  `mapstructure:"http"`
	Token TokenConfig `mapstructure:"token"`
	Redis RedisConfig `mapstructure:"redis"`
	Rate  RateConfig  `mapstructure:"rate"`
	Mail  MailConfig  `mapstructure:"mail"`

	DatabaseURL  string   `mapstructure:"database_url"`
	ResetURIBase string   `mapstructure:"reset_uri_base"`
	ResizerURL   string   `mapstructure:"resizer_url"`
	PostalAPIURL string   `mapstructure:"postal_api_url"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	SentryDSN    string   `mapstructure:"sentry_dsn"`
}

// Production reports whether cookies must be Secure.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		path = "config.yaml"
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: database_url is required")
	}
	if c.Token.AccessSecret == "" || c.Token.RefreshSecret == "" || c.Token.ResetSecret == "" {
		return fmt.Errorf("config: all three token secrets are required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "store-api")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", "5s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("token.access_ttl", "15m")
	v.SetDefault("token.refresh_ttl", "168h")
	v.SetDefault("token.reset_ttl", "10m")
	v.SetDefault("token.issuer", "store-api")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate.limit", 10)
	v.SetDefault("rate.window", "1m")

	v.SetDefault("reset_uri_base", "http://localhost:3000/reset-password")
	v.SetDefault("postal_api_url", "https://api.postalpincode.in")
}
