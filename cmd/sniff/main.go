// Package main is the sniff binary. It wires the adapters to the core
// services and hands control to the CLI.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/sniff-cli/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	var a *app

	cli.SetVersion(version)
	cli.SetBootstrap(func(configDir string) error {
		built, err := newApp(configDir)
		if err != nil {
			return err
		}
		a = built

		cli.SetClassifierService(a.classifier)
		cli.SetHistoryService(a.history)
		cli.SetSettingsService(a.settings)
		cli.SetMetricsHandler(a.metrics.Handler())
		return nil
	})

	err := cli.Execute()
	if a != nil {
		if cerr := a.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Error: closing: %v\n", cerr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
