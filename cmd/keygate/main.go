package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/keygate-app/keygate/internal/interfaces/cli/migrate"
	"github.com/keygate-app/keygate/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "keygate",
		Short: "Keygate - subscription activation backend",
		Long:  `Keygate serves device activation requests and the administrator dashboard that approves them.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
