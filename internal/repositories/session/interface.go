package session

import (
	"context"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/lilynet/playtimetracker/internal/repositories/session Repository

// Repository defines the interface for session data persistence
type Repository interface {
	// FindActiveSessions retrieves all open sessions for a player
	FindActiveSessions(ctx context.Context, input *FindActiveSessionsInput) (*FindActiveSessionsOutput, error)

	// LastSessionID retrieves the highest session id already sealed for a
	// player, or zero if the player has no sealed sessions
	LastSessionID(ctx context.Context, input *LastSessionIDInput) (*LastSessionIDOutput, error)

	// AssignSessionID stamps a session id onto every un-numbered session
	// document for a player that started at or before the cutoff
	AssignSessionID(ctx context.Context, input *AssignSessionIDInput) error

	// CloseSession marks a single session document as inactive and records
	// its end time
	CloseSession(ctx context.Context, input *CloseSessionInput) error

	// FindBySessionID retrieves all session documents for a player carrying
	// a specific session id
	FindBySessionID(ctx context.Context, input *FindBySessionIDInput) (*FindBySessionIDOutput, error)

	// FinalizeSegments writes computed end times and durations onto a
	// session's activity tracker entries
	FinalizeSegments(ctx context.Context, input *FinalizeSegmentsInput) error

	// HasActiveSession reports whether a player currently has an open session
	HasActiveSession(ctx context.Context, input *HasActiveSessionInput) (bool, error)
}
