package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "create the documents table of the SQL store" }
func (*migrateCmd) Usage() string {
	return `migrate

  Connects to the configured store and creates its schema. Redis and
  memory stores need no schema.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		logrus.Errorf("config: %s", err)
		return subcommands.ExitFailure
	}
	_, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		logrus.Errorf("migrate: %s", err)
		return subcommands.ExitFailure
	}
	defer closeStore()
	logrus.WithField("driver", cfg.Store.Driver).Info("schema ready")
	return subcommands.ExitSuccess
}
