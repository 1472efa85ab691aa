// AngelaMos | 2026
// bootstrap.go

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelamos/promptvault/internal/auth"
	"github.com/angelamos/promptvault/internal/bootstrap"
	"github.com/angelamos/promptvault/internal/category"
	"github.com/angelamos/promptvault/internal/settings"
	"github.com/angelamos/promptvault/internal/user"
)

func newBootstrapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the first admin and default category on an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			db := rt.db.DB

			seeder := bootstrap.New(
				user.NewService(user.NewRepository(db), auth.NewRepository(db), rt.logger),
				category.NewService(category.NewRepository(db), category.NewTransactor(db), rt.logger),
				settings.NewService(settings.NewRepository(db), rt.cfg.App, rt.cfg.Database, rt.logger),
				rt.cfg.Bootstrap,
				rt.logger,
			)

			res, err := seeder.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Seeded {
				fmt.Fprintln(out, "users already exist; nothing to do")
				return nil
			}
			fmt.Fprintf(out, "created admin %s and category %s\n",
				rt.cfg.Bootstrap.AdminEmail, res.CategoryID)
			return nil
		},
	}
}
