package sealer

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/lilynet/playtimetracker/internal/services/sealer Service

// Service defines the interface for sealing player sessions
type Service interface {
	// Seal closes a player's open session(s): assigns session ids in
	// start-time order, records the end time, and back-fills every activity
	// segment's end time and duration. Sealing a player with no open
	// sessions is a no-op.
	Seal(ctx context.Context, input *SealInput) error
}
