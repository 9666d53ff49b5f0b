package main

import (
	"fmt"
	"strings"

	intconfig "backoffice/internal/config"
	"backoffice/internal/repositories"

	"github.com/spf13/cobra"
)

func newCheckSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-schema",
		Short: "Report missing core tables and columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			problems := 0
			for _, rep := range repositories.CheckSchema(intconfig.DB, repositories.CoreTables()) {
				switch {
				case !rep.Exists:
					problems++
					cmd.Printf("%-18s MISSING\n", rep.Table)
				case len(rep.MissingColumns) > 0:
					problems++
					cmd.Printf("%-18s missing columns: %s\n", rep.Table, strings.Join(rep.MissingColumns, ", "))
				default:
					cmd.Printf("%-18s ok\n", rep.Table)
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d table(s) need attention", problems)
			}
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create optional tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := repositories.Migrate(cmd.Context(), intconfig.DB)
			for _, t := range done {
				cmd.Printf("ensured %s\n", t)
			}
			return err
		},
	}
}
