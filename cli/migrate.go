package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Backend.MigrateUp(cmd.Context()); err != nil {
				return err
			}
			return printVersion(cmd)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Backend.MigrateDown(cmd.Context()); err != nil {
				return err
			}
			return printVersion(cmd)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printVersion(cmd)
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func printVersion(cmd *cobra.Command) error {
	v, err := app.Backend.SchemaVersion(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("schema version %d\n", v)
	return nil
}
