package sealer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	clockMocks "github.com/lilynet/playtimetracker/internal/common/clock/mocks"
	"github.com/lilynet/playtimetracker/internal/models"
	sessionRepo "github.com/lilynet/playtimetracker/internal/repositories/session"
	sessionMocks "github.com/lilynet/playtimetracker/internal/repositories/session/mocks"
)

type SealerServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockSessionRepo *sessionMocks.MockRepository
	mockClock       *clockMocks.MockClock
	logs            *observer.ObservedLogs
	service         Service
	ctx             context.Context

	// Test data
	testPlayerID uuid.UUID
	logoutTime   time.Time
	sessionA     *models.Session
	sessionB     *models.Session
}

func (s *SealerServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	core, logs := observer.New(zap.WarnLevel)
	s.logs = logs

	svc, err := New(&Config{
		SessionRepo: s.mockSessionRepo,
		Clock:       s.mockClock,
		Logger:      zap.New(core),
	})
	s.Require().NoError(err)
	s.service = svc

	s.ctx = context.Background()

	s.testPlayerID = uuid.MustParse("c9a646d3-9c61-4cb7-bfcd-ee2522c8f633")
	s.logoutTime = time.Date(2025, 4, 5, 12, 0, 0, 0, time.UTC)

	// Two unsealed sessions, one segment each
	s.sessionA = &models.Session{
		ID:        primitive.NewObjectID(),
		StartTime: time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC),
		Active:    true,
	}
	s.sessionB = &models.Session{
		ID:        primitive.NewObjectID(),
		StartTime: time.Date(2025, 4, 5, 11, 0, 0, 0, time.UTC),
		Active:    true,
	}
}

func (s *SealerServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSealerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SealerServiceTestSuite))
}

func (s *SealerServiceTestSuite) expectFindActive(sessions ...*models.Session) {
	s.mockSessionRepo.EXPECT().
		FindActiveSessions(s.ctx, &sessionRepo.FindActiveSessionsInput{PlayerID: s.testPlayerID}).
		Return(&sessionRepo.FindActiveSessionsOutput{Sessions: sessions}, nil)
}

func (s *SealerServiceTestSuite) expectLastSessionID(id int64) {
	s.mockSessionRepo.EXPECT().
		LastSessionID(s.ctx, &sessionRepo.LastSessionIDInput{PlayerID: s.testPlayerID}).
		Return(&sessionRepo.LastSessionIDOutput{SessionID: id}, nil)
}

// sealedCopy returns the session as the store would hand it back after the
// close write: inactive, numbered, with the logout time recorded
func (s *SealerServiceTestSuite) sealedCopy(sess *models.Session, sessionID int64, segmentStarts ...time.Time) *models.Session {
	segments := make([]models.ActivitySegment, 0, len(segmentStarts))
	for _, start := range segmentStarts {
		segments = append(segments, models.ActivitySegment{StartTime: start})
	}

	return &models.Session{
		ID:              sess.ID,
		StartTime:       sess.StartTime,
		EndTime:         s.logoutTime,
		Active:          false,
		SessionID:       sessionID,
		ActivityTracker: segments,
	}
}

func (s *SealerServiceTestSuite) TestSeal_NoActiveSessions() {
	// Second seal in a row finds nothing and writes nothing
	s.expectFindActive()

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.NoError(err)
}

func (s *SealerServiceTestSuite) TestSeal_TwoSessionsNumberedInStartTimeOrder() {
	// Returned out of order on purpose: the sealer must sort by start_time
	s.expectFindActive(s.sessionB, s.sessionA)
	s.expectLastSessionID(0)

	sealedA := s.sealedCopy(s.sessionA, 1, s.sessionA.StartTime)
	sealedB := s.sealedCopy(s.sessionB, 2, s.sessionB.StartTime)

	gomock.InOrder(
		s.mockSessionRepo.EXPECT().AssignSessionID(s.ctx, &sessionRepo.AssignSessionIDInput{
			PlayerID:  s.testPlayerID,
			Cutoff:    s.sessionA.StartTime,
			SessionID: 1,
		}).Return(nil),
		s.mockSessionRepo.EXPECT().CloseSession(s.ctx, &sessionRepo.CloseSessionInput{
			ID:      s.sessionA.ID,
			EndTime: s.logoutTime,
		}).Return(nil),
		s.mockSessionRepo.EXPECT().FindBySessionID(s.ctx, &sessionRepo.FindBySessionIDInput{
			PlayerID:  s.testPlayerID,
			SessionID: 1,
		}).Return(&sessionRepo.FindBySessionIDOutput{Sessions: []*models.Session{sealedA}}, nil),
		s.mockSessionRepo.EXPECT().FinalizeSegments(s.ctx, &sessionRepo.FinalizeSegmentsInput{
			ID: s.sessionA.ID,
			Patches: []sessionRepo.SegmentPatch{
				{Index: 0, EndTime: s.logoutTime, Duration: 7200},
			},
		}).Return(nil),
		s.mockSessionRepo.EXPECT().AssignSessionID(s.ctx, &sessionRepo.AssignSessionIDInput{
			PlayerID:  s.testPlayerID,
			Cutoff:    s.sessionB.StartTime,
			SessionID: 2,
		}).Return(nil),
		s.mockSessionRepo.EXPECT().CloseSession(s.ctx, &sessionRepo.CloseSessionInput{
			ID:      s.sessionB.ID,
			EndTime: s.logoutTime,
		}).Return(nil),
		s.mockSessionRepo.EXPECT().FindBySessionID(s.ctx, &sessionRepo.FindBySessionIDInput{
			PlayerID:  s.testPlayerID,
			SessionID: 2,
		}).Return(&sessionRepo.FindBySessionIDOutput{Sessions: []*models.Session{sealedB}}, nil),
		s.mockSessionRepo.EXPECT().FinalizeSegments(s.ctx, &sessionRepo.FinalizeSegmentsInput{
			ID: s.sessionB.ID,
			Patches: []sessionRepo.SegmentPatch{
				{Index: 0, EndTime: s.logoutTime, Duration: 3600},
			},
		}).Return(nil),
	)

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.NoError(err)
}

func (s *SealerServiceTestSuite) TestSeal_ContinuesFromLastSealedID() {
	s.expectFindActive(s.sessionA)
	s.expectLastSessionID(41)

	sealed := s.sealedCopy(s.sessionA, 42, s.sessionA.StartTime)

	s.mockSessionRepo.EXPECT().AssignSessionID(s.ctx, &sessionRepo.AssignSessionIDInput{
		PlayerID:  s.testPlayerID,
		Cutoff:    s.sessionA.StartTime,
		SessionID: 42,
	}).Return(nil)
	s.mockSessionRepo.EXPECT().CloseSession(s.ctx, gomock.Any()).Return(nil)
	s.mockSessionRepo.EXPECT().FindBySessionID(s.ctx, &sessionRepo.FindBySessionIDInput{
		PlayerID:  s.testPlayerID,
		SessionID: 42,
	}).Return(&sessionRepo.FindBySessionIDOutput{Sessions: []*models.Session{sealed}}, nil)
	s.mockSessionRepo.EXPECT().FinalizeSegments(s.ctx, gomock.Any()).Return(nil)

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.NoError(err)
}

func (s *SealerServiceTestSuite) TestSeal_WarnsOnMultipleActiveSessionsButProcessesAll() {
	sessionC := &models.Session{
		ID:        primitive.NewObjectID(),
		StartTime: time.Date(2025, 4, 5, 11, 30, 0, 0, time.UTC),
		Active:    true,
	}

	s.expectFindActive(s.sessionA, s.sessionB, sessionC)
	s.expectLastSessionID(0)

	for i, sess := range []*models.Session{s.sessionA, s.sessionB, sessionC} {
		sessionID := int64(i) + 1
		s.mockSessionRepo.EXPECT().AssignSessionID(s.ctx, &sessionRepo.AssignSessionIDInput{
			PlayerID:  s.testPlayerID,
			Cutoff:    sess.StartTime,
			SessionID: sessionID,
		}).Return(nil)
		s.mockSessionRepo.EXPECT().CloseSession(s.ctx, &sessionRepo.CloseSessionInput{
			ID:      sess.ID,
			EndTime: s.logoutTime,
		}).Return(nil)
		s.mockSessionRepo.EXPECT().FindBySessionID(s.ctx, &sessionRepo.FindBySessionIDInput{
			PlayerID:  s.testPlayerID,
			SessionID: sessionID,
		}).Return(&sessionRepo.FindBySessionIDOutput{
			Sessions: []*models.Session{s.sealedCopy(sess, sessionID, sess.StartTime)},
		}, nil)
		s.mockSessionRepo.EXPECT().FinalizeSegments(s.ctx, gomock.Any()).Return(nil)
	}

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.NoError(err)

	warnings := s.logs.FilterLevelExact(zap.WarnLevel).All()
	s.Require().Len(warnings, 1)
	s.Contains(warnings[0].Message, "multiple unclosed sessions")
}

func (s *SealerServiceTestSuite) TestSeal_BackfillsStragglersSweptUpByAssignment() {
	s.expectFindActive(s.sessionA)
	s.expectLastSessionID(0)

	// The sweep stamped a second, older document that never got an end time
	straggler := &models.Session{
		ID:        primitive.NewObjectID(),
		StartTime: time.Date(2025, 4, 5, 9, 0, 0, 0, time.UTC),
		Active:    false,
		SessionID: 1,
		ActivityTracker: []models.ActivitySegment{
			{StartTime: time.Date(2025, 4, 5, 9, 0, 0, 0, time.UTC)},
		},
	}
	sealed := s.sealedCopy(s.sessionA, 1, s.sessionA.StartTime)

	s.mockSessionRepo.EXPECT().AssignSessionID(s.ctx, gomock.Any()).Return(nil)
	s.mockSessionRepo.EXPECT().CloseSession(s.ctx, gomock.Any()).Return(nil)
	s.mockSessionRepo.EXPECT().FindBySessionID(s.ctx, gomock.Any()).
		Return(&sessionRepo.FindBySessionIDOutput{Sessions: []*models.Session{straggler, sealed}}, nil)

	// The straggler's segment chain closes at the seal's logout time
	s.mockSessionRepo.EXPECT().FinalizeSegments(s.ctx, &sessionRepo.FinalizeSegmentsInput{
		ID: straggler.ID,
		Patches: []sessionRepo.SegmentPatch{
			{Index: 0, EndTime: s.logoutTime, Duration: 10800},
		},
	}).Return(nil)
	s.mockSessionRepo.EXPECT().FinalizeSegments(s.ctx, &sessionRepo.FinalizeSegmentsInput{
		ID: sealed.ID,
		Patches: []sessionRepo.SegmentPatch{
			{Index: 0, EndTime: s.logoutTime, Duration: 7200},
		},
	}).Return(nil)

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.NoError(err)
}

func (s *SealerServiceTestSuite) TestSeal_AbortsOnCloseFailure() {
	storeErr := errors.New("connection reset")

	s.expectFindActive(s.sessionB, s.sessionA)
	s.expectLastSessionID(0)

	s.mockSessionRepo.EXPECT().AssignSessionID(s.ctx, gomock.Any()).Return(nil)
	s.mockSessionRepo.EXPECT().CloseSession(s.ctx, gomock.Any()).Return(storeErr)
	// No re-fetch, no segment writes, no second offset

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.ErrorIs(err, storeErr)
}

func (s *SealerServiceTestSuite) TestSeal_ReturnsFindError() {
	storeErr := errors.New("no reachable servers")

	s.mockSessionRepo.EXPECT().
		FindActiveSessions(s.ctx, gomock.Any()).
		Return(nil, storeErr)

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.ErrorIs(err, storeErr)
}

func (s *SealerServiceTestSuite) TestSeal_ReturnsLastSessionIDError() {
	storeErr := errors.New("aggregate failed")

	s.expectFindActive(s.sessionA)
	s.mockSessionRepo.EXPECT().
		LastSessionID(s.ctx, gomock.Any()).
		Return(nil, storeErr)

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.ErrorIs(err, storeErr)
}

func (s *SealerServiceTestSuite) TestSeal_MissingPlayerID() {
	err := s.service.Seal(s.ctx, &SealInput{})
	s.ErrorIs(err, ErrMissingPlayerID)

	err = s.service.Seal(s.ctx, nil)
	s.ErrorIs(err, ErrMissingPlayerID)
}

func (s *SealerServiceTestSuite) TestSeal_ZeroLogoutTimeUsesClock() {
	now := time.Date(2025, 4, 5, 13, 37, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(now)

	s.expectFindActive(s.sessionA)
	s.expectLastSessionID(0)

	s.mockSessionRepo.EXPECT().AssignSessionID(s.ctx, gomock.Any()).Return(nil)
	s.mockSessionRepo.EXPECT().CloseSession(s.ctx, &sessionRepo.CloseSessionInput{
		ID:      s.sessionA.ID,
		EndTime: now,
	}).Return(nil)
	s.mockSessionRepo.EXPECT().FindBySessionID(s.ctx, gomock.Any()).
		Return(&sessionRepo.FindBySessionIDOutput{}, nil)

	err := s.service.Seal(s.ctx, &SealInput{PlayerID: s.testPlayerID})
	s.NoError(err)
}

func (s *SealerServiceTestSuite) TestSeal_SkipsSegmentWriteForEmptyTracker() {
	s.expectFindActive(s.sessionA)
	s.expectLastSessionID(0)

	sealed := s.sealedCopy(s.sessionA, 1)

	s.mockSessionRepo.EXPECT().AssignSessionID(s.ctx, gomock.Any()).Return(nil)
	s.mockSessionRepo.EXPECT().CloseSession(s.ctx, gomock.Any()).Return(nil)
	s.mockSessionRepo.EXPECT().FindBySessionID(s.ctx, gomock.Any()).
		Return(&sessionRepo.FindBySessionIDOutput{Sessions: []*models.Session{sealed}}, nil)
	// No FinalizeSegments call

	err := s.service.Seal(s.ctx, &SealInput{
		PlayerID:   s.testPlayerID,
		LogoutTime: s.logoutTime,
	})
	s.NoError(err)
}

func TestSegmentPatches_Contiguity(t *testing.T) {
	sessionEnd := time.Date(2025, 4, 5, 12, 0, 0, 0, time.UTC)
	starts := []time.Time{
		time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 5, 10, 20, 30, 0, time.UTC),
		time.Date(2025, 4, 5, 11, 5, 0, 500000000, time.UTC),
	}

	sealed := &models.Session{
		ID:      primitive.NewObjectID(),
		EndTime: sessionEnd,
		ActivityTracker: []models.ActivitySegment{
			{StartTime: starts[0]},
			{StartTime: starts[1]},
			{StartTime: starts[2]},
		},
	}

	patches := segmentPatches(sealed, sessionEnd)
	if len(patches) != 3 {
		t.Fatalf("expected 3 patches, got %d", len(patches))
	}

	// Each segment ends where the next starts; the last ends with the session
	for i, patch := range patches {
		expectedEnd := sessionEnd
		if i < len(starts)-1 {
			expectedEnd = starts[i+1]
		}
		if !patch.EndTime.Equal(expectedEnd) {
			t.Errorf("patch %d end_time = %v, want %v", i, patch.EndTime, expectedEnd)
		}
		expectedDuration := expectedEnd.Sub(starts[i]).Seconds()
		if patch.Duration != expectedDuration {
			t.Errorf("patch %d duration = %f, want %f", i, patch.Duration, expectedDuration)
		}
	}

	// The chained durations cover the whole session with no drift
	var total float64
	for _, patch := range patches {
		total += patch.Duration
	}
	if want := sessionEnd.Sub(starts[0]).Seconds(); total != want {
		t.Errorf("summed duration = %f, want %f", total, want)
	}
}
