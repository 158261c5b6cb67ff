package main

import (
	"os"

	"github.com/trust-chain-organization/sagebase-sub000/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
