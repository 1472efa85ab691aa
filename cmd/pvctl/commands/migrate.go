// AngelaMos | 2026
// migrate.go

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelamos/promptvault/internal/core"
)

func newMigrateCommand() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply the migrations embedded in the binary.

Subcommands:
  down    - Roll back the most recent migration
  status  - Print the current schema version`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := core.Migrate(cmd.Context(), rt.db.DB.DB); err != nil {
				return err
			}
			return printVersion(cmd, rt)
		},
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				rt, err := openSession(cmd.Context(), cmd)
				if err != nil {
					return err
				}
				defer rt.Close()

				if err := core.MigrateDown(cmd.Context(), rt.db.DB.DB); err != nil {
					return err
				}
				return printVersion(cmd, rt)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				rt, err := openSession(cmd.Context(), cmd)
				if err != nil {
					return err
				}
				defer rt.Close()

				return printVersion(cmd, rt)
			},
		},
	)

	return migrate
}

func printVersion(cmd *cobra.Command, rt *session) error {
	v, err := core.MigrationVersion(cmd.Context(), rt.db.DB.DB)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", v)
	return nil
}
