package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	intconfig "backoffice/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "backoffice-admin",
		Short:         "Maintenance tasks for the back-office database",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env := intconfig.LoadEnv()
			intconfig.ConnectDB(env.DBDSN)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			intconfig.CloseDB()
		},
	}
	root.AddCommand(newSeedAirportsCmd(), newCheckSchemaCmd(), newMigrateCmd(), newCreateUserCmd())
	return root
}
