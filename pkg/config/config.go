// Package config loads settings from configs/config.yml, .env and HONOR_*
// environment variables.
package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/honorwa/honor-wallet/pkg/service"
)

type Server struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// Store selects the document store. Driver is one of postgres, sqlite,
// redis or memory.
type Store struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
	Addr     string `mapstructure:"addr"`
	Prefix   string `mapstructure:"prefix"`
}

type Pricing struct {
	Source   string        `mapstructure:"source"` // coingecko or static
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Schedule string        `mapstructure:"schedule"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type Mail struct {
	Provider     string `mapstructure:"provider"` // mailjet, smtp, sendgrid or log
	From         string `mapstructure:"from"`
	FromName     string `mapstructure:"from_name"`
	SupportInbox string `mapstructure:"support_inbox"`
	APIKey       string `mapstructure:"api_key"`
	SecretKey    string `mapstructure:"secret_key"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
}

type Assistant struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type Config struct {
	LogLevel  string              `mapstructure:"log_level"`
	Server    Server              `mapstructure:"server"`
	Store     Store               `mapstructure:"store"`
	Pricing   Pricing             `mapstructure:"pricing"`
	Fees      service.FeeSchedule `mapstructure:"fees"`
	Auth      service.AuthConfig  `mapstructure:"auth"`
	Mail      Mail                `mapstructure:"mail"`
	Assistant Assistant           `mapstructure:"assistant"`

	v *viper.Viper
}

func setDefaults(v *viper.Viper) {
	fees := service.DefaultFeeSchedule()

	v.SetDefault("log_level", "info")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 5*time.Minute)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.allowed_origins", []string{"https://honor-wallet.com"})
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.host", "localhost")
	v.SetDefault("store.port", "5432")
	v.SetDefault("store.username", "postgres")
	v.SetDefault("store.password", "")
	v.SetDefault("store.dbname", "honor")
	v.SetDefault("store.sslmode", "disable")
	v.SetDefault("store.path", "honor.db")
	v.SetDefault("store.addr", "localhost:6379")
	v.SetDefault("store.prefix", "")
	v.SetDefault("pricing.source", "coingecko")
	v.SetDefault("pricing.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("pricing.api_key", "")
	v.SetDefault("pricing.schedule", "@every 30s")
	v.SetDefault("pricing.timeout", 10*time.Second)
	v.SetDefault("fees.default_convert", fees.DefaultConvert)
	v.SetDefault("fees.card", fees.Card)
	v.SetDefault("fees.onramp", fees.OnRamp)
	v.SetDefault("fees.wire", fees.Wire)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 0)
	v.SetDefault("mail.provider", "log")
	v.SetDefault("mail.from", "no-reply@honor-wallet.com")
	v.SetDefault("mail.from_name", "Honor Wallet")
	v.SetDefault("mail.support_inbox", "info@honor-wallet.com")
	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.secret_key", "")
	v.SetDefault("mail.smtp_host", "")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.smtp_user", "")
	v.SetDefault("mail.smtp_password", "")
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.model", "gemini-2.5-flash")
}

// Load reads config.yml from the first directory that has one. A missing
// file is not an error: defaults and environment still apply.
func Load(dirs ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %s", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("honor")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
		logrus.Info("no config file found, using defaults and environment")
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if cfg.Auth.Secret == "" {
		return nil, errors.New("auth.jwt_secret is required (HONOR_AUTH_JWT_SECRET)")
	}
	return cfg, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// WatchFees calls fn with the new fee schedule whenever the config file
// changes. Other sections need a restart.
func (c *Config) WatchFees(fn func(service.FeeSchedule)) {
	c.v.OnConfigChange(func(e fsnotify.Event) {
		var fees service.FeeSchedule
		if err := c.v.UnmarshalKey("fees", &fees); err != nil {
			logrus.WithError(err).Warn("config reload: fees not applied")
			return
		}
		logrus.WithField("file", e.Name).Info("fee schedule reloaded")
		fn(fees)
	})
	c.v.WatchConfig()
}
