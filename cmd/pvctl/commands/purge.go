// AngelaMos | 2026
// purge.go

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/angelamos/promptvault/internal/auth"
	"github.com/angelamos/promptvault/internal/retention"
)

func newPurgeCommand() *cobra.Command {
	var (
		days   int
		tokens bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete entries soft-deleted before the retention window",
		Long: `Purge removes entries whose deletion is older than --days days.
Live entries are never touched. Without --days the configured
retention.days is used. With --tokens, refresh tokens that expired
before now are deleted as well.

Examples:
  pvctl purge              # use retention.days
  pvctl purge --days 7     # drop everything deleted more than a week ago
  pvctl purge --tokens     # also clear expired refresh tokens`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openSession(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc := retention.NewService(
				retention.NewRepository(rt.db.DB),
				rt.cfg.Retention,
				rt.logger,
			)

			if !cmd.Flags().Changed("days") {
				days = svc.DefaultDays()
			}

			res, err := svc.Purge(cmd.Context(), days, time.Now())
			if err != nil && res.Purged == 0 {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "purged %d entries deleted before %s\n",
				res.Purged, res.Cutoff.Format(time.RFC3339))
			if err != nil || !tokens {
				return err
			}

			pruned, err := auth.NewRepository(rt.db.DB).PruneExpired(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired refresh tokens\n", pruned)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "retention window in days")
	cmd.Flags().BoolVar(&tokens, "tokens", false, "also delete expired refresh tokens")

	return cmd
}
