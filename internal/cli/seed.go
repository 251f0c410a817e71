package cli

import (
	"fmt"
	"log/slog"

	"github.com/information-sharing-networks/blog-api/internal/seed"
	"github.com/spf13/cobra"
)

var (
	seedCount int
	seedValue uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert fake blog posts",
	Long:  `Insert generated blog posts into the configured store (useful for demos and manual testing)`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close(ctx) }()

		posts, err := seed.Posts(ctx, s, seed.NewGenerator(seedValue), seedCount)
		if err != nil {
			return err
		}

		appLogger.Info("seeded blog posts", slog.Int("count", len(posts)))
		for _, p := range posts {
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", seed.DefaultCount, "number of posts to insert")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed (0 picks a random seed)")
}
