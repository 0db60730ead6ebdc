package upstream

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_source.go github.com/lilynet/playtimetracker/internal/upstream Source

// PlayerEvent is a join or leave notification from the network
type PlayerEvent struct {
	// PlayerID is the UUID of the player the event concerns
	PlayerID uuid.UUID

	// Joining is true for join events and false for leave events
	Joining bool
}

// Source defines the interface for the upstream presence source
type Source interface {
	// OnlinePlayers returns the players currently connected to the network
	OnlinePlayers(ctx context.Context) ([]uuid.UUID, error)

	// SubscribePlayerEvents registers a handler for join/leave notifications
	// and returns a function that cancels the subscription
	SubscribePlayerEvents(handler func(PlayerEvent)) (func(), error)
}
