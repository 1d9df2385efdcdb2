// Command frontdoor runs the front controller of a federated social
// network node.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "frontdoor",
		Short: "Front controller for a federated social network node",
		Long: `Frontdoor serves every page request of the node: it detects the
install and maintenance modes, resolves the module for the path,
runs its phases and renders the page through the active theme.

Process settings come from the environment (FRONTDOOR_*, DATABASE_*,
REDIS_URL, SENTRY_*). Site settings live in the config table and the
local YAML file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
