package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	honor "github.com/honorwa/honor-wallet"
	"github.com/honorwa/honor-wallet/pkg/cache"
	"github.com/honorwa/honor-wallet/pkg/handler"
	"github.com/honorwa/honor-wallet/pkg/notify"
	"github.com/honorwa/honor-wallet/pkg/pricing"
	"github.com/honorwa/honor-wallet/pkg/repository"
	"github.com/honorwa/honor-wallet/pkg/service"
	"github.com/honorwa/honor-wallet/pkg/stream"
)

type serveCmd struct {
	port string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API and the price schedule" }
func (*serveCmd) Usage() string {
	return `serve [-port <port>]

  Starts the wallet API. Prices refresh on the configured schedule and are
  pushed to /api/prices/stream subscribers.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", "", "listen port, overrides server.port")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logrus.Infoln("starting server")
	cfg, err := loadConfig()
	if err != nil {
		logrus.Errorf("config: %s", err)
		return subcommands.ExitFailure
	}
	if c.port != "" {
		cfg.Server.Port = c.port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		logrus.Errorf("store: %s", err)
		return subcommands.ExitFailure
	}
	defer closeStore()
	logrus.WithField("driver", cfg.Store.Driver).Info("store connected")

	hub := stream.NewHub(cfg.Server.AllowedOrigins)
	defer hub.Close()

	engine := service.NewService(repository.NewRepository(store), service.Deps{
		Source:    newSource(cfg.Pricing),
		Prices:    cache.NewPriceCache(pricing.SeedPrices()),
		Sessions:  cache.NewSessionCache(cfg.Auth.SessionTTL, 10*time.Minute),
		Publisher: hub,
		Notifier:  notify.NewNotifier(newSender(cfg.Mail), cfg.Mail.SupportInbox),
		Advisor:   newAdvisor(ctx, cfg.Assistant),
		Fees:      cfg.Fees,
		Auth:      cfg.Auth,
	})
	if err := engine.AuthService.SeedAdmins(ctx); err != nil {
		logrus.Errorf("seed admins: %s", err)
		return subcommands.ExitFailure
	}
	cfg.WatchFees(engine.Ledger.SetFees)

	if err := engine.PricingSvc.Start(ctx, cfg.Pricing.Schedule); err != nil {
		logrus.Errorf("price schedule %q: %s", cfg.Pricing.Schedule, err)
		return subcommands.ExitFailure
	}
	defer engine.PricingSvc.Stop()

	srv := new(honor.Server)
	routes := handler.NewHandler(engine.Service, hub, cfg.Server.AllowedOrigins).InitRoute()
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Run(cfg.Server.Port, routes, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}()
	logrus.WithField("port", cfg.Server.Port).Info("server listening")

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("server: %s", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		logrus.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown: %s", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
