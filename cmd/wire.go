package main

import (
	"context"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/pkg/assistant"
	"github.com/honorwa/honor-wallet/pkg/config"
	"github.com/honorwa/honor-wallet/pkg/notify"
	"github.com/honorwa/honor-wallet/pkg/pricing"
	"github.com/honorwa/honor-wallet/pkg/repository"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configDir, ".")
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(cfg.Level())
	return cfg, nil
}

// openStore connects the configured document store. SQL stores get their
// table created on the way.
func openStore(ctx context.Context, cfg config.Store) (repository.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "postgres":
		db, err := repository.NewPostgresDB(repository.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
			DBName:   cfg.DBName,
			SSLMode:  cfg.SSLMode,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect postgres")
		}
		store := repository.NewSQLStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	case "sqlite":
		db, err := repository.NewSQLiteDB(cfg.Path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open sqlite")
		}
		store := repository.NewSQLStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password})
		if err := client.WithContext(ctx).Ping().Err(); err != nil {
			client.Close()
			return nil, nil, errors.Wrap(err, "connect redis")
		}
		return repository.NewRedisStore(client, cfg.Prefix), client.Close, nil
	case "memory", "":
		logrus.Warn("using the in-memory store, nothing survives a restart")
		return repository.NewMemoryStore(), noop, nil
	default:
		return nil, nil, errors.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func newSource(cfg config.Pricing) pricing.Source {
	if cfg.Source == "static" {
		return pricing.Static{}
	}
	return pricing.NewCoinGecko(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
}

func newSender(cfg config.Mail) notify.Sender {
	switch cfg.Provider {
	case "mailjet":
		return notify.NewMailjet(cfg.APIKey, cfg.SecretKey, cfg.From, cfg.FromName)
	case "sendgrid":
		return notify.NewSendGrid(cfg.APIKey, cfg.From, cfg.FromName)
	case "smtp":
		return notify.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From)
	default:
		return notify.LogSender{}
	}
}

// newAdvisor falls back to canned answers when no key is configured or the
// client cannot be built.
func newAdvisor(ctx context.Context, cfg config.Assistant) *assistant.Advisor {
	if cfg.APIKey == "" {
		return assistant.New(nil)
	}
	gemini, err := assistant.NewGemini(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		logrus.WithError(err).Warn("gemini client unavailable, using canned answers")
		return assistant.New(nil)
	}
	return assistant.New(gemini)
}
