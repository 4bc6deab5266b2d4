package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/presentation"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// newsCmd holds the flags for the 'news' subcommand.
type newsCmd struct {
	limit int
	plain bool
}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "print trending market headlines" }
func (*newsCmd) Usage() string {
	return `dashctl news [-n <count>] [-plain]

  Prints the latest general market news from the quote provider.
`
}

func (c *newsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "Number of headlines to print.")
	f.BoolVar(&c.plain, "plain", !isTerminal(os.Stdout), "Print plain markdown.")
}

func (c *newsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.limit <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must be positive")
		return subcommands.ExitUsageError
	}

	a, err := newApp(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	articles, err := service.NewMarketService(a.quotes, a.log).GetNews(ctx, c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching news: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(presentation.NewsMarkdown(articles), c.plain)
	return subcommands.ExitSuccess
}
