package main

import (
	"os"

	"github.com/gitweekly/gitweekly/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
