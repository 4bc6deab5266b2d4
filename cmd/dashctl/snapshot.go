package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/presentation"
)

// snapshotCmd holds the flags for the 'snapshot' subcommand.
type snapshotCmd struct {
	asJSON  bool
	plain   bool
	verbose bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "value the portfolio once and print the dashboard" }
func (*snapshotCmd) Usage() string {
	return `dashctl snapshot [-json] [-plain] [-v]

  Fetches the holdings, resolves current prices and prints the holdings
  table, totals and allocation.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "Print the raw snapshot as JSON.")
	f.BoolVar(&c.plain, "plain", !isTerminal(os.Stdout), "Print plain markdown.")
	f.BoolVar(&c.verbose, "v", false, "Log price lookups to stderr.")
}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	snap, err := a.refresher.Refresh(ctx, model.TriggerManual)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		printMarkdown(presentation.Markdown(a.presenter.Render(snap)), c.plain)
	}

	if snap.Status == model.StatusError {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
