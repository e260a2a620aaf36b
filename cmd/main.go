package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

var configDir = flag.String("config", "configs", "directory holding config.yml")

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&serveCmd{}, "")
	commander.Register(&migrateCmd{}, "")
	commander.Register(&pricesCmd{}, "")
	commander.Register(&adviseCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
