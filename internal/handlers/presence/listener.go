package presence

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/lilynet/playtimetracker/internal/services/sealer"
	"github.com/lilynet/playtimetracker/internal/upstream"
)

// ListenerConfig holds configuration for the presence listener
type ListenerConfig struct {
	// Upstream presence source
	Source upstream.Source

	// Sealer service
	Sealer sealer.Service

	// Logger for seal failures
	Logger *zap.Logger
}

// Listener is the push-driven front-end: it seals a player's sessions as soon
// as a leave notification arrives. Unlike the monitor it performs no
// active-session check; each leave notification is trusted to correspond to
// one real departure, which holds as long as the two front-ends are deployed
// mutually exclusively.
type Listener struct {
	source upstream.Source
	sealer sealer.Service
	logger *zap.Logger

	startOnce sync.Once
}

// NewListener creates a new presence listener
func NewListener(cfg *ListenerConfig) (*Listener, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Source == nil {
		return nil, errors.New("source cannot be nil")
	}

	if cfg.Sealer == nil {
		return nil, errors.New("sealer cannot be nil")
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Listener{
		source: cfg.Source,
		sealer: cfg.Sealer,
		logger: cfg.Logger,
	}, nil
}

// Start launches the event loop in the background. Repeated calls are no-ops.
func (l *Listener) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		go func() {
			if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				l.logger.Error("presence listener stopped", zap.Error(err))
			}
		}()
	})
}

// Run subscribes to player events and blocks until the context is cancelled
func (l *Listener) Run(ctx context.Context) error {
	unsubscribe, err := l.source.SubscribePlayerEvents(func(event upstream.PlayerEvent) {
		if err := l.handleEvent(ctx, event); err != nil {
			l.logger.Error("an error occurred when sealing a left player",
				zap.String("player_id", event.PlayerID.String()),
				zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	defer unsubscribe()

	<-ctx.Done()
	return ctx.Err()
}

// handleEvent seals the player on a leave notification; join notifications
// are ignored
func (l *Listener) handleEvent(ctx context.Context, event upstream.PlayerEvent) error {
	if event.Joining {
		return nil
	}

	return l.sealer.Seal(ctx, &sealer.SealInput{PlayerID: event.PlayerID})
}
