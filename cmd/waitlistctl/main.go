package main

import (
	"os"

	"github.com/xavierca1/rhydle-waitlist/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.DefaultConfig()).Execute(); err != nil {
		os.Exit(1)
	}
}
