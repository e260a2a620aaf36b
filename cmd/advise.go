package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/pricing"
)

type adviseCmd struct {
	market bool
}

func (*adviseCmd) Name() string     { return "advise" }
func (*adviseCmd) Synopsis() string { return "ask the assistant a question from the terminal" }
func (*adviseCmd) Usage() string {
	return `advise [-market] <question...>

  Sends the question to the configured assistant and renders the markdown
  answer. With -market it comments on the current prices instead.
`
}

func (c *adviseCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.market, "market", false, "analyze current market prices")
}

func (c *adviseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		logrus.Errorf("config: %s", err)
		return subcommands.ExitFailure
	}
	advisor := newAdvisor(ctx, cfg.Assistant)

	var answer string
	if c.market {
		prices, err := newSource(cfg.Pricing).Prices(ctx, models.CatalogSymbols())
		if err != nil {
			logrus.WithError(err).Warn("live prices unavailable, using seed prices")
			prices = pricing.SeedPrices()
		}
		answer = advisor.AnalyzeMarket(ctx, prices)
	} else {
		query := strings.Join(f.Args(), " ")
		if query == "" {
			fmt.Fprintln(os.Stderr, "a question is required")
			return subcommands.ExitUsageError
		}
		answer = advisor.Advise(ctx, query, nil)
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		fmt.Println(answer)
		return subcommands.ExitSuccess
	}
	out, err := r.Render(answer)
	if err != nil {
		fmt.Println(answer)
		return subcommands.ExitSuccess
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
