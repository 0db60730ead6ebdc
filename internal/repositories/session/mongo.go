package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lilynet/playtimetracker/internal/models"
)

// Config holds configuration for the Mongo session repository
type Config struct {
	// Collection holding the activity documents
	Collection *mongo.Collection
}

// mongoRepository implements the Repository interface using MongoDB
type mongoRepository struct {
	collection *mongo.Collection
}

// NewMongo creates a new Mongo-backed session repository
func NewMongo(cfg *Config) (*mongoRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Collection == nil {
		return nil, errors.New("collection cannot be nil")
	}

	return &mongoRepository{
		collection: cfg.Collection,
	}, nil
}

// FindActiveSessions retrieves all open sessions for a player, projected to
// the fields the sealer reads
func (r *mongoRepository) FindActiveSessions(ctx context.Context, input *FindActiveSessionsInput) (*FindActiveSessionsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	filter := activeSessionFilter(input.PlayerID)
	opts := options.Find().SetProjection(bson.M{
		"start_time": 1,
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active sessions: %w", err)
	}

	var sessions []*models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode active sessions: %w", err)
	}

	return &FindActiveSessionsOutput{
		Sessions: sessions,
	}, nil
}

// LastSessionID retrieves the highest session id already sealed for a player
func (r *mongoRepository) LastSessionID(ctx context.Context, input *LastSessionIDInput) (*LastSessionIDOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	cursor, err := r.collection.Aggregate(ctx, lastSessionIDPipeline(input.PlayerID))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate last session id: %w", err)
	}

	var results []struct {
		SessionID int64 `bson:"session_id"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode last session id: %w", err)
	}

	if len(results) == 0 {
		return &LastSessionIDOutput{SessionID: 0}, nil
	}

	return &LastSessionIDOutput{
		SessionID: results[len(results)-1].SessionID,
	}, nil
}

// AssignSessionID stamps a session id onto every un-numbered session document
// for a player that started at or before the cutoff
func (r *mongoRepository) AssignSessionID(ctx context.Context, input *AssignSessionIDInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	filter := bson.M{
		"player_id":  models.PackPlayerID(input.PlayerID),
		"start_time": bson.M{"$lte": input.Cutoff},
		"session_id": bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"active":     false,
			"session_id": input.SessionID,
		},
	}

	if _, err := r.collection.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to assign session id %d: %w", input.SessionID, err)
	}

	return nil
}

// CloseSession marks a single session document as inactive and records its end time
func (r *mongoRepository) CloseSession(ctx context.Context, input *CloseSessionInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	update := bson.M{
		"$set": bson.M{
			"active":   false,
			"end_time": input.EndTime,
		},
	}

	if _, err := r.collection.UpdateByID(ctx, input.ID, update); err != nil {
		return fmt.Errorf("failed to close session %s: %w", input.ID.Hex(), err)
	}

	return nil
}

// FindBySessionID retrieves all session documents for a player carrying a
// specific session id
func (r *mongoRepository) FindBySessionID(ctx context.Context, input *FindBySessionIDInput) (*FindBySessionIDOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	filter := bson.M{
		"player_id":  models.PackPlayerID(input.PlayerID),
		"session_id": input.SessionID,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions with id %d: %w", input.SessionID, err)
	}

	var sessions []*models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions with id %d: %w", input.SessionID, err)
	}

	return &FindBySessionIDOutput{
		Sessions: sessions,
	}, nil
}

// FinalizeSegments writes computed end times and durations onto a session's
// activity tracker entries
func (r *mongoRepository) FinalizeSegments(ctx context.Context, input *FinalizeSegmentsInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if len(input.Patches) == 0 {
		return nil
	}

	update := bson.M{"$set": segmentSetOps(input.Patches)}

	if _, err := r.collection.UpdateByID(ctx, input.ID, update); err != nil {
		return fmt.Errorf("failed to finalize segments for session %s: %w", input.ID.Hex(), err)
	}

	return nil
}

// HasActiveSession reports whether a player currently has an open session
func (r *mongoRepository) HasActiveSession(ctx context.Context, input *HasActiveSessionInput) (bool, error) {
	if input == nil {
		return false, errors.New("input cannot be nil")
	}

	count, err := r.collection.CountDocuments(ctx, activeSessionFilter(input.PlayerID), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count active sessions: %w", err)
	}

	return count > 0, nil
}

func activeSessionFilter(playerID uuid.UUID) bson.M {
	return bson.M{
		"player_id": models.PackPlayerID(playerID),
		"active":    true,
	}
}

func lastSessionIDPipeline(playerID uuid.UUID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"player_id":  models.PackPlayerID(playerID),
			"active":     false,
			"session_id": bson.M{"$exists": true},
		}}},
		{{Key: "$sort", Value: bson.M{"session_id": -1}}},
		{{Key: "$project", Value: bson.M{"session_id": 1}}},
		{{Key: "$limit", Value: 1}},
	}
}

// segmentSetOps builds the positional $set document for a batch of segment
// patches, keyed by array index
func segmentSetOps(patches []SegmentPatch) bson.M {
	ops := make(bson.M, len(patches)*2)
	for _, patch := range patches {
		ops[fmt.Sprintf("activity_tracker.%d.end_time", patch.Index)] = patch.EndTime
		ops[fmt.Sprintf("activity_tracker.%d.duration", patch.Index)] = patch.Duration
	}

	return ops
}
