// AngelaMos | 2026
// keygen.go

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/angelamos/promptvault/internal/auth"
	"github.com/angelamos/promptvault/internal/config"
)

func newKeygenCommand() *cobra.Command {
	var (
		privatePath string
		publicPath  string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the ES256 key pair used to sign access tokens",
		Long: `Keygen writes a P-256 key pair as PEM. Paths default to
jwt.private_key_path and jwt.public_key_path from the configuration.
Existing files are kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if privatePath == "" || publicPath == "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				if privatePath == "" {
					privatePath = cfg.JWT.PrivateKeyPath
				}
				if publicPath == "" {
					publicPath = cfg.JWT.PublicKeyPath
				}
			}

			if !force {
				for _, p := range []string{privatePath, publicPath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", p)
					} else if !errors.Is(err, os.ErrNotExist) {
						return err
					}
				}
			}

			for _, p := range []string{privatePath, publicPath} {
				if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
					return fmt.Errorf("create key directory: %w", err)
				}
			}

			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private", "", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "", "public key output path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing keys")

	return cmd
}
