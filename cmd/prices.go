package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/amount"
)

type pricesCmd struct {
	symbols string
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "fetch current prices once and print them" }
func (*pricesCmd) Usage() string {
	return `prices [-s BTC,ETH]

  Queries the configured price source for the catalog, or the given symbols.
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "s", "", "comma separated symbols, defaults to the whole catalog")
}

func (c *pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		logrus.Errorf("config: %s", err)
		return subcommands.ExitFailure
	}
	symbols := models.CatalogSymbols()
	if c.symbols != "" {
		symbols = strings.Split(strings.ToUpper(c.symbols), ",")
	}

	prices, err := newSource(cfg.Pricing).Prices(ctx, symbols)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	keys := make([]string, 0, len(prices))
	for k := range prices {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%s\n", k, amount.FormatFiat(prices[k], "USD"))
	}
	w.Flush()
	return subcommands.ExitSuccess
}
