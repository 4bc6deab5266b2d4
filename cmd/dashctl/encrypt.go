package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
)

// encryptCmd holds the flags for the 'encrypt' subcommand.
type encryptCmd struct {
	key      string
	generate bool
}

func (*encryptCmd) Name() string     { return "encrypt" }
func (*encryptCmd) Synopsis() string { return "encrypt the quote provider token for FINNHUB_TOKEN_ENCRYPTED" }
func (*encryptCmd) Usage() string {
	return `dashctl encrypt [-key <fernet key>] [-generate]

  Reads a token from stdin and prints it encrypted with SECRET_KEY (or -key).
  With -generate, prints a new SECRET_KEY instead.
`
}

func (c *encryptCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.key, "key", os.Getenv("SECRET_KEY"), "Fernet key, base64. Defaults to SECRET_KEY.")
	f.BoolVar(&c.generate, "generate", false, "Generate a new key and exit.")
}

func (c *encryptCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.generate {
		key, err := config.GenerateSecretKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println(key)
		return subcommands.ExitSuccess
	}

	if c.key == "" {
		fmt.Fprintln(os.Stderr, "Error: no key, set SECRET_KEY or pass -key")
		return subcommands.ExitUsageError
	}

	token, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && token == "" {
		fmt.Fprintf(os.Stderr, "Error reading token: %v\n", err)
		return subcommands.ExitFailure
	}
	token = strings.TrimSpace(token)
	if token == "" {
		fmt.Fprintln(os.Stderr, "Error: empty token")
		return subcommands.ExitUsageError
	}

	encrypted, err := config.EncryptSecret(token, c.key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(encrypted)
	return subcommands.ExitSuccess
}
