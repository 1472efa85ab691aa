// AngelaMos | 2026
// root.go

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/angelamos/promptvault/internal/config"
	"github.com/angelamos/promptvault/internal/core"
)

var configPath string

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pvctl",
		Short: "PromptVault operations tool",
		Long: `pvctl runs maintenance tasks against a PromptVault deployment.

It reads the same configuration as the API server (YAML file plus
environment), so it can run from cron or a deploy pipeline.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		newMigrateCommand(),
		newPurgeCommand(),
		newKeygenCommand(),
		newBootstrapCommand(),
	)

	return root
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session holds what database-backed commands share.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *core.Database
}

func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := core.NewLogger(cfg.Log, cmd.ErrOrStderr())

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, db: db}, nil
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("database close error", "error", err)
	}
}
