package cli

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/information-sharing-networks/blog-api/internal/config"
	"github.com/information-sharing-networks/blog-api/internal/logger"
	"github.com/information-sharing-networks/blog-api/internal/store"
	"github.com/information-sharing-networks/blog-api/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.ServerEnvironment
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "blog-server",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Blog post API server",
	Long: `blog-server serves the blog post REST API (GET/POST /posts, GET/PUT/DELETE /posts/{id}).

The store is selected by DATABASE_URL (mongodb://, postgres:// or memory://).
Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewServerConfig()
		if err != nil {
			log.Printf("failed to load configuration: %v", err.Error())
			return err
		}

		appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// openStore connects to the store configured for the current environment
func openStore(ctx context.Context) (store.Store, error) {
	storeCtx, cancel := context.WithTimeout(ctx, cfg.DatabasePingTimeout)
	defer cancel()

	return store.Open(storeCtx, cfg.StoreURL(), cfg.StoreOptions(appLogger))
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dropCmd)
}
