package presence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sessionRepo "github.com/lilynet/playtimetracker/internal/repositories/session"
	"github.com/lilynet/playtimetracker/internal/services/sealer"
	"github.com/lilynet/playtimetracker/internal/upstream"
)

// defaultPollInterval is how often the monitor samples the online set
const defaultPollInterval = 5 * time.Second

// MonitorConfig holds configuration for the presence monitor
type MonitorConfig struct {
	// Upstream presence source
	Source upstream.Source

	// Sealer service
	Sealer sealer.Service

	// Session repository, used to skip players already sealed elsewhere
	SessionRepo sessionRepo.Repository

	// PollInterval between online-set samples; defaults to 5s
	PollInterval time.Duration

	// Logger for per-tick failures
	Logger *zap.Logger
}

// Monitor is the poll-driven front-end: it samples the set of online players
// on a fixed interval and seals sessions for players who disappeared since
// the previous sample.
type Monitor struct {
	source       upstream.Source
	sealer       sealer.Service
	sessionRepo  sessionRepo.Repository
	pollInterval time.Duration
	logger       *zap.Logger

	startOnce sync.Once

	// previous is nil until the first successful sample establishes a baseline
	previous map[uuid.UUID]struct{}
}

// NewMonitor creates a new presence monitor
func NewMonitor(cfg *MonitorConfig) (*Monitor, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Source == nil {
		return nil, errors.New("source cannot be nil")
	}

	if cfg.Sealer == nil {
		return nil, errors.New("sealer cannot be nil")
	}

	if cfg.SessionRepo == nil {
		return nil, errors.New("session repository cannot be nil")
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Monitor{
		source:       cfg.Source,
		sealer:       cfg.Sealer,
		sessionRepo:  cfg.SessionRepo,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger,
	}, nil
}

// Start launches the poll loop in the background. Repeated calls are no-ops,
// so wiring it as a connect listener starts polling exactly once however many
// times the connection bounces.
func (m *Monitor) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		go func() {
			if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("presence monitor stopped", zap.Error(err))
			}
		}()
	})
}

// Run polls until the context is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// poll samples the online set and seals departed players. A failed sample
// aborts the tick without touching the baseline; a failed seal is isolated to
// its player and never prevents the baseline update.
func (m *Monitor) poll(ctx context.Context) {
	players, err := m.source.OnlinePlayers(ctx)
	if err != nil {
		m.logger.Error("an error occurred when retrieving current players", zap.Error(err))
		return
	}

	current := make(map[uuid.UUID]struct{}, len(players))
	for _, id := range players {
		current[id] = struct{}{}
	}

	defer func() {
		m.previous = current
	}()

	if m.previous == nil {
		// First sample, no baseline to diff against
		return
	}

	for id := range m.previous {
		if _, online := current[id]; online {
			continue
		}
		m.sealPlayer(ctx, id)
	}
}

func (m *Monitor) sealPlayer(ctx context.Context, playerID uuid.UUID) {
	active, err := m.sessionRepo.HasActiveSession(ctx, &sessionRepo.HasActiveSessionInput{
		PlayerID: playerID,
	})
	if err != nil {
		m.logger.Error("failed to check for an active session",
			zap.String("player_id", playerID.String()),
			zap.Error(err))
		return
	}

	if !active {
		// Already sealed, most likely by an event-driven tracker
		return
	}

	if err := m.sealer.Seal(ctx, &sealer.SealInput{PlayerID: playerID}); err != nil {
		m.logger.Error("an error occurred when sealing a left player",
			zap.String("player_id", playerID.String()),
			zap.Error(err))
	}
}
