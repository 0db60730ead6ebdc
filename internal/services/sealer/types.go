package sealer

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lilynet/playtimetracker/internal/common/clock"
	sessionRepo "github.com/lilynet/playtimetracker/internal/repositories/session"
)

// Config holds configuration for the sealer service
type Config struct {
	// Session repository
	SessionRepo sessionRepo.Repository

	// Clock used to resolve the logout time when the caller does not supply one
	Clock clock.Clock

	// Logger for warnings and error context
	Logger *zap.Logger
}

// SealInput contains parameters for sealing a player's sessions
type SealInput struct {
	// PlayerID is the UUID of the player who left the network
	PlayerID uuid.UUID

	// LogoutTime is when the player left. The zero value means "now".
	LogoutTime time.Time
}
