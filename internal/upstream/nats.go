package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	// onlinePlayersSubject answers request/reply with the current online set
	onlinePlayersSubject = "network.players"

	// playerEventsSubject carries join/leave notifications
	playerEventsSubject = "network.player.events"
)

// NATSSourceConfig holds configuration for the NATS presence source
type NATSSourceConfig struct {
	// Manager owning the bus connection
	Manager *Manager

	// Logger for malformed payloads
	Logger *zap.Logger
}

// NATSSource implements the Source interface over the network message bus
type NATSSource struct {
	manager *Manager
	logger  *zap.Logger
}

// NewNATSSource creates a new NATS-backed presence source
func NewNATSSource(cfg *NATSSourceConfig) (*NATSSource, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Manager == nil {
		return nil, errors.New("manager cannot be nil")
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &NATSSource{
		manager: cfg.Manager,
		logger:  cfg.Logger,
	}, nil
}

// OnlinePlayers requests the set of players currently connected to the network
func (s *NATSSource) OnlinePlayers(ctx context.Context) ([]uuid.UUID, error) {
	conn, err := s.manager.Conn()
	if err != nil {
		return nil, err
	}

	msg, err := conn.RequestWithContext(ctx, onlinePlayersSubject, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to request online players: %w", err)
	}

	var raw []string
	if err := json.Unmarshal(msg.Data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode online players: %w", err)
	}

	players := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			s.logger.Warn("skipping malformed player uuid in online set", zap.String("uuid", value))
			continue
		}
		players = append(players, id)
	}

	return players, nil
}

type playerEventPayload struct {
	PlayerUUID string `json:"player_uuid"`
	Joining    bool   `json:"joining"`
}

// SubscribePlayerEvents registers a handler for join/leave notifications
func (s *NATSSource) SubscribePlayerEvents(handler func(PlayerEvent)) (func(), error) {
	conn, err := s.manager.Conn()
	if err != nil {
		return nil, err
	}

	sub, err := conn.Subscribe(playerEventsSubject, func(msg *nats.Msg) {
		var payload playerEventPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			s.logger.Warn("invalid player event payload", zap.Error(err))
			return
		}

		id, err := uuid.Parse(payload.PlayerUUID)
		if err != nil {
			s.logger.Warn("invalid player uuid in event", zap.String("uuid", payload.PlayerUUID))
			return
		}

		handler(PlayerEvent{
			PlayerID: id,
			Joining:  payload.Joining,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to player events: %w", err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn("failed to unsubscribe from player events", zap.Error(err))
		}
	}, nil
}
