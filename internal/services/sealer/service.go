package sealer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lilynet/playtimetracker/internal/common/clock"
	"github.com/lilynet/playtimetracker/internal/models"
	sessionRepo "github.com/lilynet/playtimetracker/internal/repositories/session"
)

// service implements the Service interface
type service struct {
	sessionRepo sessionRepo.Repository
	clock       clock.Clock
	logger      *zap.Logger
	locks       *playerLocks
}

// New creates a new sealer service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.SessionRepo == nil {
		return nil, errors.New("session repository cannot be nil")
	}

	if cfg.Clock == nil {
		cfg.Clock = &clock.DefaultClock{}
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &service{
		sessionRepo: cfg.SessionRepo,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		locks:       newPlayerLocks(),
	}, nil
}

// Seal closes a player's open session(s). Session ids are assigned at seal
// time rather than at creation so that a backlog of unsealed sessions (for
// example after an extended upstream outage) is numbered in one sweep, in
// start-time order, without every session writer needing to know the next id.
func (s *service) Seal(ctx context.Context, input *SealInput) error {
	if input == nil || input.PlayerID == uuid.Nil {
		return ErrMissingPlayerID
	}

	logoutTime := input.LogoutTime
	if logoutTime.IsZero() {
		logoutTime = s.clock.Now()
	}

	// Two near-simultaneous triggers for the same player must not interleave
	// their id assignment sweeps
	unlock := s.locks.acquire(input.PlayerID)
	defer unlock()

	activeOut, err := s.sessionRepo.FindActiveSessions(ctx, &sessionRepo.FindActiveSessionsInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		s.logger.Error("failed to find unclosed sessions",
			zap.String("player_id", input.PlayerID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to find unclosed sessions: %w", err)
	}

	current := activeOut.Sessions
	if len(current) == 0 {
		// Already sealed, nothing to do
		return nil
	}

	if len(current) > 1 {
		s.logger.Warn("found multiple unclosed sessions for player, this should not be possible",
			zap.String("player_id", input.PlayerID.String()),
			zap.Int("count", len(current)))
	}

	lastOut, err := s.sessionRepo.LastSessionID(ctx, &sessionRepo.LastSessionIDInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		s.logger.Error("failed to find last session id",
			zap.String("player_id", input.PlayerID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to find last session id: %w", err)
	}

	sort.Slice(current, func(i, j int) bool {
		return current[i].StartTime.Before(current[j].StartTime)
	})

	for offset, toSeal := range current {
		sessionID := lastOut.SessionID + int64(offset) + 1

		// Sweep up this session and any earlier stragglers left un-numbered
		// by a prior partial failure
		err := s.sessionRepo.AssignSessionID(ctx, &sessionRepo.AssignSessionIDInput{
			PlayerID:  input.PlayerID,
			Cutoff:    toSeal.StartTime,
			SessionID: sessionID,
		})
		if err != nil {
			return s.sealError(input.PlayerID, sessionID, err)
		}

		err = s.sessionRepo.CloseSession(ctx, &sessionRepo.CloseSessionInput{
			ID:      toSeal.ID,
			EndTime: logoutTime,
		})
		if err != nil {
			return s.sealError(input.PlayerID, sessionID, err)
		}

		// Re-fetch by the assigned id: the sweep above may have stamped more
		// than one document
		sealedOut, err := s.sessionRepo.FindBySessionID(ctx, &sessionRepo.FindBySessionIDInput{
			PlayerID:  input.PlayerID,
			SessionID: sessionID,
		})
		if err != nil {
			return s.sealError(input.PlayerID, sessionID, err)
		}

		for _, sealed := range sealedOut.Sessions {
			patches := segmentPatches(sealed, logoutTime)
			if len(patches) == 0 {
				continue
			}

			err := s.sessionRepo.FinalizeSegments(ctx, &sessionRepo.FinalizeSegmentsInput{
				ID:      sealed.ID,
				Patches: patches,
			})
			if err != nil {
				return s.sealError(input.PlayerID, sessionID, err)
			}
		}
	}

	return nil
}

func (s *service) sealError(playerID uuid.UUID, sessionID int64, err error) error {
	s.logger.Error("an error occurred when closing a record",
		zap.String("player_id", playerID.String()),
		zap.Int64("session_id", sessionID),
		zap.Error(err))
	return fmt.Errorf("failed to seal session %d: %w", sessionID, err)
}

// segmentPatches computes the end time and duration of every activity
// segment in a sealed session: each segment ends where the next one starts,
// and the last segment ends when the session ends. Sessions swept up as
// stragglers never had an end time written, so those fall back to the seal's
// logout time.
func segmentPatches(sealed *models.Session, logoutTime time.Time) []sessionRepo.SegmentPatch {
	segments := sealed.ActivityTracker
	if len(segments) == 0 {
		return nil
	}

	sessionEnd := sealed.EndTime
	if sessionEnd.IsZero() {
		sessionEnd = logoutTime
	}

	patches := make([]sessionRepo.SegmentPatch, 0, len(segments))
	for i, segment := range segments {
		end := sessionEnd
		if i < len(segments)-1 {
			end = segments[i+1].StartTime
		}

		patches = append(patches, sessionRepo.SegmentPatch{
			Index:    i,
			EndTime:  end,
			Duration: end.Sub(segment.StartTime).Seconds(),
		})
	}

	return patches
}
