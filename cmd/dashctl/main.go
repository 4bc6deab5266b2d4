// Command dashctl renders the portfolio dashboard in the terminal.
//
// It runs the same valuation pipeline as the server, once, from the same
// environment configuration.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&snapshotCmd{}, "dashboard")
	commander.Register(&newsCmd{}, "dashboard")
	commander.Register(&encryptCmd{}, "setup")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
