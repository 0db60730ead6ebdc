package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lilynet/playtimetracker/internal/handlers/presence"
	sessionRepo "github.com/lilynet/playtimetracker/internal/repositories/session"
	"github.com/lilynet/playtimetracker/internal/services/sealer"
	"github.com/lilynet/playtimetracker/internal/upstream"
)

type options struct {
	connect    string
	username   string
	password   string
	storeURI   string
	database   string
	collection string
}

func main() {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "playtimetracker",
		Short:        "Seals playtime sessions as soon as the network reports a player leaving",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.connect, "connect", "c", "localhost:4222", "address of the network message bus")
	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "username to use when authenticating to the bus")
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "password to use when authenticating to the bus")
	cmd.Flags().StringVarP(&opts.storeURI, "uri", "d", "mongodb://localhost/", "location of the MongoDB instance")
	cmd.Flags().StringVar(&opts.database, "database", "PlaytimeTracking", "MongoDB database to use")
	cmd.Flags().StringVar(&opts.collection, "collection", "Activity", "MongoDB collection to use")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	manager, err := upstream.New(&upstream.Config{
		ConnectAddr: opts.connect,
		Username:    opts.username,
		Password:    opts.password,
		StoreURI:    opts.storeURI,
		Database:    opts.database,
		Collection:  opts.collection,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create connection manager", zap.Error(err))
		return err
	}

	collection, err := manager.Store(ctx)
	if err != nil {
		logger.Error("failed to connect to the store", zap.Error(err))
		return err
	}

	repo, err := sessionRepo.NewMongo(&sessionRepo.Config{
		Collection: collection,
	})
	if err != nil {
		logger.Error("failed to create session repository", zap.Error(err))
		return err
	}

	sealerSvc, err := sealer.New(&sealer.Config{
		SessionRepo: repo,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to create sealer service", zap.Error(err))
		return err
	}

	source, err := upstream.NewNATSSource(&upstream.NATSSourceConfig{
		Manager: manager,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to create presence source", zap.Error(err))
		return err
	}

	listener, err := presence.NewListener(&presence.ListenerConfig{
		Source: source,
		Sealer: sealerSvc,
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to create presence listener", zap.Error(err))
		return err
	}

	// The event subscription is installed once the first connection succeeds
	manager.AddConnectListener(func() {
		listener.Start(ctx)
	})

	if err := manager.Connect(ctx); err != nil {
		logger.Error("failed to connect to upstream", zap.Error(err))
		return err
	}

	logger.Info("playtime tracker running",
		zap.String("connect", opts.connect),
		zap.String("database", opts.database),
		zap.String("collection", opts.collection))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return manager.Close(shutdownCtx)
}
