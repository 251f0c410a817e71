package cli

import (
	"context"
	"log/slog"

	"github.com/information-sharing-networks/blog-api/internal/server"
	"github.com/information-sharing-networks/blog-api/internal/version"
)

// runServer connects to the store and serves the API until ctx is cancelled
func runServer(ctx context.Context) error {
	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("DATABASE_NAME", cfg.DatabaseName),
		slog.Int64("MAX_REQUEST_SIZE", cfg.MaxRequestSize),
		slog.Any("RATE_LIMIT_RPS", cfg.RateLimitRPS),
	)

	s, err := openStore(ctx)
	if err != nil {
		appLogger.Error("Unable to connect to store", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	srv := server.NewServer(s, cfg, appLogger)
	defer srv.StoreShutdown()

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}
