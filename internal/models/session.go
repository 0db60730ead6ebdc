package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivitySegment is one sub-interval of a session, recording finer-grained
// presence such as per-server activity. Segments are appended by the
// activity-reporting plugin while the session is active; end times and
// durations are back-filled when the session is sealed.
type ActivitySegment struct {
	// StartTime is when this segment began
	StartTime time.Time `bson:"start_time"`

	// EndTime is when this segment ended, computed at seal time
	EndTime time.Time `bson:"end_time,omitempty"`

	// Duration is the length of this segment in seconds, computed at seal time
	Duration float64 `bson:"duration,omitempty"`
}

// Session represents one continuous presence interval for a player on the network
type Session struct {
	// ID is the document identifier assigned by the store
	ID primitive.ObjectID `bson:"_id,omitempty"`

	// PlayerID is the player's UUID in the legacy binary encoding
	PlayerID primitive.Binary `bson:"player_id"`

	// StartTime is when the player was first observed online
	StartTime time.Time `bson:"start_time"`

	// EndTime is when the session was closed; unset while the session is active
	EndTime time.Time `bson:"end_time,omitempty"`

	// Active indicates whether the session is still open
	Active bool `bson:"active"`

	// SessionID is the per-player ordinal assigned at seal time; unset until sealed
	SessionID int64 `bson:"session_id,omitempty"`

	// ActivityTracker is the ordered chain of activity segments within this session
	ActivityTracker []ActivitySegment `bson:"activity_tracker"`
}
