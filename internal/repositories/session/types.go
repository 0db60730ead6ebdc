package session

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lilynet/playtimetracker/internal/models"
)

// FindActiveSessionsInput contains parameters for retrieving a player's open sessions
type FindActiveSessionsInput struct {
	PlayerID uuid.UUID
}

// FindActiveSessionsOutput contains the result of retrieving a player's open
// sessions, projected to the fields the sealer reads
type FindActiveSessionsOutput struct {
	Sessions []*models.Session
}

// LastSessionIDInput contains parameters for retrieving a player's most recent sealed id
type LastSessionIDInput struct {
	PlayerID uuid.UUID
}

// LastSessionIDOutput contains the result of retrieving a player's most recent sealed id
type LastSessionIDOutput struct {
	SessionID int64
}

// AssignSessionIDInput contains parameters for the bulk id assignment sweep
type AssignSessionIDInput struct {
	PlayerID uuid.UUID

	// Cutoff bounds the sweep: only sessions with start_time at or before
	// this instant are stamped
	Cutoff time.Time

	SessionID int64
}

// CloseSessionInput contains parameters for closing a single session document
type CloseSessionInput struct {
	ID      primitive.ObjectID
	EndTime time.Time
}

// FindBySessionIDInput contains parameters for retrieving sessions by assigned id
type FindBySessionIDInput struct {
	PlayerID  uuid.UUID
	SessionID int64
}

// FindBySessionIDOutput contains the result of retrieving sessions by assigned id
type FindBySessionIDOutput struct {
	Sessions []*models.Session
}

// SegmentPatch carries the computed end time and duration for one activity
// tracker entry, addressed by its position in the array
type SegmentPatch struct {
	Index    int
	EndTime  time.Time
	Duration float64
}

// FinalizeSegmentsInput contains parameters for back-filling a session's segments
type FinalizeSegmentsInput struct {
	ID      primitive.ObjectID
	Patches []SegmentPatch
}

// HasActiveSessionInput contains parameters for the active-session check
type HasActiveSessionInput struct {
	PlayerID uuid.UUID
}
