package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete every blog post",
	Long: `Delete every blog post in the configured store.

This cannot be undone. --force is required unless ENVIRONMENT is test or dev.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !dropForce && cfg.Environment != "test" && cfg.Environment != "dev" {
			return fmt.Errorf("refusing to drop posts in the %s environment without --force", cfg.Environment)
		}

		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close(ctx) }()

		if err := s.DropAll(ctx); err != nil {
			return err
		}

		appLogger.Warn("deleted all blog posts")
		return nil
	},
}

func init() {
	dropCmd.Flags().BoolVar(&dropForce, "force", false, "drop posts in any environment")
}
